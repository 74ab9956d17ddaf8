package status

import (
	"fmt"
	"sort"
	"time"

	"github.com/anchore/anchore-ctl/internal/errors"
)

// Database reports whether the image database is usable and lists its images.
type Database interface {
	Check() bool
	ImageIDs() ([]string, error)
}

// Feeds reports whether feed metadata has been synced.
type Feeds interface {
	Synced() bool
}

// Manifests loads the analyzer manifest of an image.
type Manifests interface {
	Load(imageID string) (Manifest, error)
}

// Manifest maps analyzer module names to their last run.
type Manifest map[string]ModuleRun

// ModuleRun is one analyzer module's last result.
// Timestamp is in Unix seconds; a run without one is ignored.
type ModuleRun struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

// StatusSuccess is the module status of a successful run.
const StatusSuccess = "SUCCESS"

// State is a reported component state.
type State string

const (
	StateOK             State = "OK"
	StateNotInitialized State = "NOTINITIALIZED"
	StateNotSynced      State = "NOTSYNCED"
	StateNoData         State = "NODATA"
	StateFail           State = "FAIL"
)

// Report is the aggregate system status.
type Report struct {
	Database State
	Feeds    State
	Analyzer State

	// FailedImage and FailedModule are set when Analyzer is StateFail.
	FailedImage  string
	FailedModule string

	// Latest is the newest analyzer run across all images.
	Latest time.Time
}

// Build collects a Report. Images are visited in sorted order and the
// first failing one is reported.
func Build(db Database, feeds Feeds, manifests Manifests) (*Report, error) {
	report := &Report{
		Database: StateNotInitialized,
		Feeds:    StateNotSynced,
		Analyzer: StateNoData,
	}
	if db.Check() {
		report.Database = StateOK
	}
	if feeds.Synced() {
		report.Feeds = StateOK
	}

	ids, err := db.ImageIDs()
	if err != nil {
		return nil, errors.Wrap(errors.KindUnknown, "failed to list images", err)
	}
	sort.Strings(ids)

	var latest float64
	failed := false
	for _, id := range ids {
		manifest, err := manifests.Load(id)
		if err != nil {
			return nil, errors.Wrap(errors.KindUnknown, fmt.Sprintf("failed to load analyzer manifest for %s", id), err)
		}

		modules := make([]string, 0, len(manifest))
		for name := range manifest {
			modules = append(modules, name)
		}
		sort.Strings(modules)

		for _, name := range modules {
			run := manifest[name]
			if run.Timestamp <= 0 {
				continue
			}
			if run.Timestamp > latest {
				latest = run.Timestamp
			}
			if run.Status != StatusSuccess && !failed {
				failed = true
				report.FailedImage = id
				report.FailedModule = name
			}
		}
	}

	switch {
	case latest == 0:
		report.Analyzer = StateNoData
	case failed:
		report.Analyzer = StateFail
	default:
		report.Analyzer = StateOK
	}
	if latest > 0 {
		report.Latest = time.Unix(int64(latest), 0)
	}
	return report, nil
}
