package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
	{"id": "1", "name": "revenue", "category": "finance", "value": "120.5"},
	{"id": "2", "name": "headcount", "category": "people", "value": 42},
	{"id": "3", "name": "growth", "category": "finance", "value": "n/a"},
	{"id": "4", "name": "churn", "category": "people"}
]`

func TestDecodeValues(t *testing.T) {
	got, err := Decode([]byte(sampleJSON))
	require.NoError(t, err)
	require.Len(t, got, 4)

	v, ok := got[0].Value.Float()
	assert.True(t, ok)
	assert.Equal(t, 120.5, v)

	v, ok = got[1].Value.Float()
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	_, ok = got[2].Value.Float()
	assert.False(t, ok, "non-numeric string should be unresolved")
	assert.Nil(t, got[2].Value.Ptr())

	_, ok = got[3].Value.Float()
	assert.False(t, ok, "missing value should be unresolved")
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode([]byte(`{"id": "1"}`))
	assert.Error(t, err)
}

func TestValueMarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal([]Suggestion{
		{ID: "1", Name: "a", Value: NewValue(1.5)},
		{ID: "2", Name: "b"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"1","name":"a","category":"","value":1.5},
		{"id":"2","name":"b","category":"","value":null}
	]`, string(data))
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	p := NewHTTP(WithHTTPURL(srv.URL), WithHTTPTimeout(time.Second))
	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "revenue", got[0].Name)
	assert.Equal(t, "finance", got[0].Category)
}

func TestHTTPFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTP(WithHTTPURL(srv.URL)).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestHTTPFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTP(WithHTTPURL(srv.URL)).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0644))

	got, err := NewFile(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = NewFile(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMockReturnsCopy(t *testing.T) {
	m := NewMock(Suggestion{ID: "1", Name: "a"})
	got, err := m.Fetch(context.Background())
	require.NoError(t, err)
	got[0].Name = "changed"

	again, _ := m.Fetch(context.Background())
	assert.Equal(t, "a", again[0].Name)
}

func TestMultiMergesInOrder(t *testing.T) {
	first := NewMock(
		Suggestion{ID: "1", Name: "a", Value: NewValue(1)},
		Suggestion{ID: "2", Name: "b", Value: NewValue(2)},
	)
	second := NewMock(
		Suggestion{ID: "9", Name: "a", Value: NewValue(9)},
		Suggestion{ID: "3", Name: "c", Value: NewValue(3)},
	)

	got, err := NewMulti(first, nil, second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, "1", got[0].ID, "first provider wins on duplicate names")
}

func TestMultiToleratesPartialFailure(t *testing.T) {
	bad := NewMockHandler(func(ctx context.Context) ([]Suggestion, error) {
		return nil, errors.New("offline")
	})
	good := NewMock(Suggestion{ID: "1", Name: "a"})

	got, err := NewMulti(bad, good).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = NewMulti(bad, bad).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestWatcherNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suggestions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	var calls atomic.Int32
	w := NewWatcher(path, func() { calls.Add(1) }, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	w := NewWatcher(path, nil, nil)
	require.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
