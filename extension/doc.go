// Package extension wires promptpad together for one host: it builds the
// session registry, scratch manager, channel locator, dispatcher and close
// detector from a config, feeds host events to the detector on a single loop
// goroutine, and exposes the user commands.
//
//	ext, err := extension.Activate(ctx, h, cfg, extension.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer ext.Deactivate()
//
//	_ = ext.Run(ctx, extension.CommandOpenScratch)
package extension
