package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memCache struct {
	data   map[string]string
	getErr error
}

func (m *memCache) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Put(key, summary string) error {
	m.data[key] = summary
	return nil
}

func (m *memCache) Close() error { return nil }

func TestCachedStoresAndReuses(t *testing.T) {
	client := &fakeClient{reply: "- a.\n- b."}
	cache := &memCache{data: map[string]string{}}
	c := NewCached(New(client, Options{}, nil), cache, "model|lang", nil)

	assert.Equal(t, "- a.\n- b.", c.Summarize(context.Background(), "text"))
	assert.Equal(t, "- a.\n- b.", c.Summarize(context.Background(), "text"))
	assert.Len(t, client.calls, 1)
	assert.Len(t, cache.data, 1)
}

func TestCachedSkipsDegradedResults(t *testing.T) {
	cache := &memCache{data: map[string]string{}}
	c := NewCached(New(&fakeClient{err: errors.New("down")}, Options{}, nil), cache, "s", nil)

	assert.Equal(t, "text", c.Summarize(context.Background(), "text"))
	assert.Empty(t, cache.data)
}

func TestCachedReadErrorFallsThrough(t *testing.T) {
	client := &fakeClient{reply: "- a."}
	cache := &memCache{data: map[string]string{}, getErr: errors.New("corrupt")}
	c := NewCached(New(client, Options{}, nil), cache, "s", nil)

	assert.Equal(t, "- a.", c.Summarize(context.Background(), "text"))
	assert.Len(t, client.calls, 1)
}

func TestCachedScopeSeparatesKeys(t *testing.T) {
	a := NewCached(Nop{}, &memCache{data: map[string]string{}}, "model-a", nil)
	b := NewCached(Nop{}, &memCache{data: map[string]string{}}, "model-b", nil)
	assert.NotEqual(t, a.key("text"), b.key("text"))
}
