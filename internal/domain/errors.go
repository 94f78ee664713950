package domain

import "errors"

var (
	ErrEmptySubscription = errors.New("subscription contains no usable keywords")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrVideoNotFound     = errors.New("video not found")
)
