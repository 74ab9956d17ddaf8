// Package status aggregates system health for the status command.
//
// The database, feed metadata and per-image analyzer manifests are consumed
// through small interfaces so callers can plug in any backing store:
//
//	report, err := status.Build(db, feeds, manifests)
//	if err != nil {
//	    return err
//	}
//	status.Render(os.Stdout, report)
//
// FSProbe implements all three interfaces on top of the resolved data
// directory layout.
package status
