// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is the Go client for the Miles for Meals API.

A Tracker holds one local snapshot of the progress record. Load and Save
move it to and from the server; the setters and Add helpers only touch the
snapshot:

	tr := client.New("http://localhost:8787", nil)
	if err := tr.Load(ctx); err != nil {
		return err
	}
	tr.AddTrainingMiles(6.2)
	if res := tr.Save(ctx, pin); !res.OK {
		return errors.New(res.Error)
	}
	fmt.Println(tr.Summary())

Trackers are independent values; create one per view. AutoRefresh reloads
in the background and does not detect conflicting local edits.
*/
package client
