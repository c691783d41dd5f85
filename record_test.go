package newshound

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiRecorder(t *testing.T) {
	t.Run("fans out", func(t *testing.T) {
		var assert = require.New(t)
		var a = &recorder{}
		var b = &recorder{}
		var m = MultiRecorder(a, b)

		assert.NoError(m.RecordFetch(FetchRecord{URL: "u", Status: 200}))
		assert.NoError(m.RecordVisit(VisitRecord{URL: "u"}))
		assert.NoError(m.RecordDiscovery(Discovery{URL: "u"}))

		for _, r := range []*recorder{a, b} {
			assert.Len(r.fetches, 1)
			assert.Len(r.visits, 1)
			assert.Len(r.discoveries, 1)
		}
	})

	t.Run("failing recorder does not stop the others", func(t *testing.T) {
		var assert = require.New(t)
		var ok = &recorder{}
		var m = MultiRecorder(failingRecorder{}, ok)

		err := m.RecordFetch(FetchRecord{URL: "u", Status: 200})

		assert.Error(err)
		assert.Len(ok.fetches, 1)
	})
}

// FailingRecorder fails every record.
type failingRecorder struct{}

func (failingRecorder) RecordFetch(FetchRecord) error   { return errors.New("boom") }
func (failingRecorder) RecordVisit(VisitRecord) error   { return errors.New("boom") }
func (failingRecorder) RecordDiscovery(Discovery) error { return errors.New("boom") }
