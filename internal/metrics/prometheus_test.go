package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ExportsEveryKnownMetric(t *testing.T) {
	c := NewCollector(NewRegistry())
	assert.Equal(t, len(exported), testutil.CollectAndCount(c))
}

func TestCollector_ReflectsRegistry(t *testing.T) {
	r := NewRegistry()
	r.Add(CacheSetsTotal, 4)
	r.Add(CacheKeys, 2)

	c := NewCollector(r)

	expected := `
# HELP memocache_cache_sets_total Total number of set operations.
# TYPE memocache_cache_sets_total counter
memocache_cache_sets_total 4
# HELP memocache_cache_keys Number of entries physically held by the store.
# TYPE memocache_cache_keys gauge
memocache_cache_keys 2
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"memocache_cache_sets_total", "memocache_cache_keys")
	assert.NoError(t, err)
}

func TestCollector_Registers(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(NewRegistry())))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, len(exported))
}
