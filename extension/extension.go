package extension

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/config"
	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/scratch"
	"github.com/randalmurphal/promptpad/session"
)

// Command names.
const (
	CommandOpenScratch = "promptpad.openScratchInput"
	CommandSend        = "promptpad.sendToChannel"
	CommandShowPanel   = "promptpad.showInputPanel"
)

// Errors returned by commands.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoPanel        = errors.New("input panel unavailable")
	ErrNoText         = errors.New("no text to send")
	ErrDeactivated    = errors.New("extension deactivated")
)

// CommandFunc is one user command.
type CommandFunc func(ctx context.Context, args ...string) error

// Extension is the activated state for one host.
type Extension struct {
	host   host.Host
	config config.Config
	opts   options
	logger *zap.Logger

	registry *session.Registry
	manager  *scratch.Manager
	locator  *channel.Locator
	pipeline *dispatch.Pipeline
	detector *scratch.Detector
	commands map[string]CommandFunc
	subs     *host.Subscriptions

	ctx      context.Context
	cancel   context.CancelFunc
	events   chan host.Event
	loopDone chan struct{}
	once     sync.Once
}

// Activate builds every component from cfg and starts the host event loop.
// Nothing keeps running if it fails.
func Activate(ctx context.Context, h host.Host, cfg config.Config, opts ...Option) (*Extension, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if h.Editor == nil || h.Terminals == nil {
		return nil, fmt.Errorf("activate: host needs an editor and terminals")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	log := o.logger

	reg := session.NewRegistry(append(cfg.RegistryOptions(), session.WithLogger(log))...)
	mgr := scratch.NewManager(h.Editor, reg, append(cfg.ManagerOptions(), scratch.WithLogger(log))...)

	locOpts := append(cfg.ChannelOptions(h.Events), channel.WithLogger(log), channel.WithSleep(o.sleep))
	loc, err := channel.NewLocator(h.Terminals, h.Commands, locOpts...)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}

	dispOpts := append(cfg.DispatchOptions(h.Clipboard), dispatch.WithLogger(log), dispatch.WithSleep(o.sleep))
	disp, err := dispatch.New(h.Terminals, h.Commands, dispOpts...)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	pipeline := dispatch.NewPipeline(loc, disp)

	finalizer := scratch.NewFinalizer(h.Editor, h.Notifier,
		append(cfg.FinalizerOptions(), scratch.WithFinalizerLogger(log))...)

	if _, err := loc.Find(ctx); err != nil {
		log.Warn("initial channel lookup failed", zap.Error(err))
	}
	detOpts := []scratch.DetectorOption{
		scratch.WithTarget(loc.IsTarget),
		scratch.WithDetectorLogger(log),
	}
	if cfg.PreserveOnFailure && h.Clipboard != nil {
		detOpts = append(detOpts, scratch.WithPreserveOnFailure(h.Clipboard))
	}
	det := scratch.NewDetector(reg, h.Editor, finalizer, pipeline, h.Notifier, detOpts...)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e := &Extension{
		host:     h,
		config:   cfg,
		opts:     o,
		logger:   log,
		registry: reg,
		manager:  mgr,
		locator:  loc,
		pipeline: pipeline,
		detector: det,
		subs:     &host.Subscriptions{},
		ctx:      loopCtx,
		cancel:   cancel,
		events:   make(chan host.Event, o.queueSize),
		loopDone: make(chan struct{}),
	}
	e.commands = map[string]CommandFunc{
		CommandOpenScratch: e.openScratch,
		CommandSend:        e.send,
		CommandShowPanel:   e.showPanel,
	}

	if h.Events != nil {
		e.subs.Add(h.Events.Subscribe(e.enqueue))
	}
	go e.loop()

	log.Info("promptpad activated",
		zap.String("strategy", cfg.Strategy),
		zap.Strings("patterns", cfg.Patterns))
	return e, nil
}

// enqueue hands an event to the loop, dropping it once deactivated.
func (e *Extension) enqueue(ev host.Event) {
	select {
	case e.events <- ev:
	case <-e.ctx.Done():
	}
}

// loop feeds events to the detector, then to the locator so a closing
// terminal is judged against the set known before it closed. Finalize flows
// outlive deactivation so Deactivate can wait for them to deliver.
func (e *Extension) loop() {
	defer close(e.loopDone)
	flowCtx := context.WithoutCancel(e.ctx)
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev := <-e.events:
			e.detector.Handle(flowCtx, ev)
			e.locator.Observe(ev)
		}
	}
}

// Run invokes a command. Failures are shown to the user as "Error: ..." and
// returned; panics inside the command are recovered into errors.
func (e *Extension) Run(ctx context.Context, name string, args ...string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
		if err != nil {
			e.logger.Warn("command failed", zap.String("command", name), zap.Error(err))
			if e.host.Notifier != nil {
				e.host.Notifier.Error(fmt.Sprintf("Error: %v", err))
			}
		}
	}()

	if e.ctx.Err() != nil {
		return ErrDeactivated
	}
	fn, ok := e.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return fn(ctx, args...)
}

// Commands returns the registered command names, sorted.
func (e *Extension) Commands() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deactivate stops event delivery, waits for in-flight finalize flows and
// clears the registry. It is safe to call more than once.
func (e *Extension) Deactivate() {
	e.once.Do(func() {
		if err := e.subs.Dispose(); err != nil {
			e.logger.Warn("dispose subscriptions", zap.Error(err))
		}
		e.cancel()
		<-e.loopDone
		e.detector.Wait()
		e.registry.Clear()
		e.logger.Info("promptpad deactivated")
	})
}

// Config returns the configuration the extension was activated with.
func (e *Extension) Config() config.Config { return e.config }

// Registry returns the session registry.
func (e *Extension) Registry() *session.Registry { return e.registry }

// Pipeline returns the send pipeline.
func (e *Extension) Pipeline() *dispatch.Pipeline { return e.pipeline }

// Locator returns the channel locator.
func (e *Extension) Locator() *channel.Locator { return e.locator }

// Detector returns the close detector.
func (e *Extension) Detector() *scratch.Detector { return e.detector }
