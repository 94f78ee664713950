// Package poll drives the periodic keyword polling loop.
//
// A single actor goroutine owns the watch table; a clockwork ticker fires the
// polling rounds. Each keyword has at most one gateway call in flight: a tick
// that finds the previous call still running skips that keyword, which is the
// natural backpressure against a slow or rate-limited gateway.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
	"github.com/mpeyrovian/TubeLytics/internal/metrics"
	"github.com/mpeyrovian/TubeLytics/internal/seen"
)

const stopTimeout = 10 * time.Second

// Notifier receives the novel videos discovered by a poll, in gateway order.
type Notifier interface {
	NotifyVideo(keyword string, video domain.Video)
}

// pollerCmd is the command interface for the Poller actor.
type pollerCmd interface{ isPollerCmd() }

type basePollerCmd struct{}

func (basePollerCmd) isPollerCmd() {}

type watchCmd struct {
	basePollerCmd
	keyword string
}

type unwatchCmd struct {
	basePollerCmd
	keyword string
}

type pollDoneCmd struct {
	basePollerCmd
	keyword string
	gen     uint64
	videos  []domain.Video
	err     error
}

type watchedCmd struct {
	basePollerCmd
	replyChannel chan []string
}

type stopPollerCmd struct {
	basePollerCmd
}

// watch is the polling state of one keyword. gen identifies the watch
// epoch: destroying and recreating a watch bumps it, so a completion from
// the previous epoch can be told apart and discarded. A stopped watch with
// a call still in flight stays in the table until that call completes,
// which keeps the single-flight rule intact across the epoch change.
type watch struct {
	gen        uint64
	inFlight   bool
	stopped    bool
	lastPolled time.Time
}

// Poller polls the search gateway for every watched keyword at a fixed
// interval and forwards unseen videos to the notifier.
type Poller struct {
	cmdCh chan pollerCmd
	clock clockwork.Clock

	gateway  domain.SearchGateway
	store    seen.Store
	notifier Notifier

	watches        map[string]*watch
	nextGen        uint64
	pollInterval   time.Duration
	gatewayTimeout time.Duration
	maxResults     int

	done chan struct{}
}

// New creates a poller and starts its actor goroutine.
func New(gateway domain.SearchGateway, store seen.Store, notifier Notifier, clock clockwork.Clock, pollInterval, gatewayTimeout time.Duration, maxResults int) *Poller {
	p := &Poller{
		cmdCh:          make(chan pollerCmd, 256),
		clock:          clock,
		gateway:        gateway,
		store:          store,
		notifier:       notifier,
		watches:        make(map[string]*watch),
		pollInterval:   pollInterval,
		gatewayTimeout: gatewayTimeout,
		maxResults:     maxResults,
		done:           make(chan struct{}),
	}
	go p.run()
	return p
}

// Watch starts polling a keyword at the next tick. Idempotent.
func (p *Poller) Watch(keyword string) {
	p.cmdCh <- watchCmd{keyword: keyword}
}

// Unwatch stops polling a keyword and clears its seen record. An in-flight
// gateway call is allowed to finish; its result is discarded.
func (p *Poller) Unwatch(keyword string) {
	p.cmdCh <- unwatchCmd{keyword: keyword}
}

// Watched returns a snapshot of the currently watched keywords,
// or nil on timeout.
func (p *Poller) Watched() []string {
	replyCh := make(chan []string, 1)
	p.cmdCh <- watchedCmd{replyChannel: replyCh}

	timer := p.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case kws := <-replyCh:
		return kws
	case <-timer.Chan():
		slog.Warn("Watched command timed out")
		return nil
	}
}

// Stop shuts down the poller. Blocks until the actor goroutine has exited
// or the stop timeout is reached.
func (p *Poller) Stop() {
	p.cmdCh <- stopPollerCmd{}

	timer := p.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-p.done:
		slog.Info("Poller stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Poller stop timeout exceeded, forcing exit", "timeout", stopTimeout)
	}
}

func (p *Poller) run() {
	defer close(p.done)

	ticker := p.clock.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-p.cmdCh:
			switch c := cmd.(type) {
			case watchCmd:
				p.handleWatch(c.keyword)
			case unwatchCmd:
				p.handleUnwatch(c.keyword)
			case pollDoneCmd:
				p.handlePollDone(c)
			case watchedCmd:
				c.replyChannel <- p.watchedSnapshot()
			case stopPollerCmd:
				slog.Info("Poller shutting down", "watched_keywords", len(p.watches))
				return
			default:
				slog.Warn("Poller received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		case <-ticker.Chan():
			p.handleTick()
		}
	}
}

func (p *Poller) handleWatch(keyword string) {
	if w, exists := p.watches[keyword]; exists {
		if !w.stopped {
			return
		}
		// Re-watched while the previous epoch's call is still in flight.
		// A new generation makes that call's completion a discard.
		w.stopped = false
		p.nextGen++
		w.gen = p.nextGen
		metrics.WatchedKeywords.Set(float64(p.activeWatchCount()))
		slog.Info("Keyword watch restarted", "keyword", keyword)
		return
	}

	p.nextGen++
	p.watches[keyword] = &watch{gen: p.nextGen}
	metrics.WatchedKeywords.Set(float64(p.activeWatchCount()))
	slog.Info("Keyword watch started", "keyword", keyword)
}

func (p *Poller) handleUnwatch(keyword string) {
	w, exists := p.watches[keyword]
	if !exists || w.stopped {
		return
	}

	if w.inFlight {
		// The entry must outlive the in-flight call so its completion is
		// matched against the right epoch; handlePollDone removes it.
		w.stopped = true
	} else {
		delete(p.watches, keyword)
	}
	metrics.WatchedKeywords.Set(float64(p.activeWatchCount()))

	ctx, cancel := context.WithTimeout(context.Background(), p.gatewayTimeout)
	defer cancel()
	if err := p.store.Clear(ctx, keyword); err != nil {
		slog.Warn("Failed to clear seen record", "keyword", keyword, "error", err)
	}
	slog.Info("Keyword watch stopped", "keyword", keyword)
}

// handleTick launches one gateway call per keyword whose previous call has
// completed. The calls run concurrently; completions come back to the actor
// as pollDone commands.
func (p *Poller) handleTick() {
	for keyword, w := range p.watches {
		if w.stopped {
			continue
		}
		if w.inFlight {
			metrics.SkippedTicksTotal.Inc()
			slog.Debug("Skipping tick, poll still in flight", "keyword", keyword)
			continue
		}
		w.inFlight = true
		w.lastPolled = p.clock.Now()
		go p.poll(keyword, w.gen)
	}
}

func (p *Poller) poll(keyword string, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), p.gatewayTimeout)
	defer cancel()

	start := p.clock.Now()
	videos, err := p.gateway.Search(ctx, keyword, p.maxResults)
	metrics.PollDuration.Observe(p.clock.Since(start).Seconds())

	p.cmdCh <- pollDoneCmd{keyword: keyword, gen: gen, videos: videos, err: err}
}

func (p *Poller) handlePollDone(c pollDoneCmd) {
	w, exists := p.watches[c.keyword]
	if !exists {
		return
	}
	w.inFlight = false

	if w.stopped {
		// Watch destroyed while the call was in flight; drop the entry
		// and discard the result.
		delete(p.watches, c.keyword)
		return
	}
	if c.gen != w.gen {
		// The keyword was unwatched and re-watched since this call
		// started; the result belongs to the destroyed epoch.
		return
	}

	if c.err != nil {
		metrics.PollsTotal.WithLabelValues("error").Inc()
		slog.Warn("Poll failed, retrying next tick", "keyword", c.keyword, "error", c.err)
		return
	}
	metrics.PollsTotal.WithLabelValues("ok").Inc()

	for _, video := range c.videos {
		if video.ID == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.gatewayTimeout)
		alreadySeen, err := p.store.CheckAndMark(ctx, c.keyword, video.ID)
		cancel()
		if err != nil {
			slog.Warn("Seen-record check failed, dropping video", "keyword", c.keyword, "video_id", video.ID, "error", err)
			continue
		}
		if alreadySeen {
			metrics.DuplicatesSuppressed.Inc()
			continue
		}

		p.notifier.NotifyVideo(c.keyword, video)
	}
}

func (p *Poller) watchedSnapshot() []string {
	kws := make([]string, 0, len(p.watches))
	for kw, w := range p.watches {
		if w.stopped {
			continue
		}
		kws = append(kws, kw)
	}
	return kws
}

func (p *Poller) activeWatchCount() int {
	n := 0
	for _, w := range p.watches {
		if !w.stopped {
			n++
		}
	}
	return n
}
