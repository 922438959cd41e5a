// Package scratch runs the scratch session lifecycle: create a temporary
// prompt buffer, notice when it closes, extract the text and hand it to a
// sender.
//
//	mgr := scratch.NewManager(editor, reg)
//	s, err := mgr.Create(ctx)
//
//	det := scratch.NewDetector(reg, editor, scratch.NewFinalizer(editor, notifier), pipeline, notifier)
//	sub := events.Subscribe(func(ev host.Event) { det.Handle(ctx, ev) })
//	defer sub.Dispose()
//
// The placeholder comment written on the first line of every scratch file is
// removed during extraction, so a buffer closed without edits sends nothing.
package scratch
