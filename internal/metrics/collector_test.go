package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	dbtest "airlinelookup/internal/testutil"
)

func TestLookupCollector(t *testing.T) {
	database, cleanup := dbtest.TestDB(t)
	defer cleanup()

	dbtest.SeedLookupStat(t, database, "tap air portugal||", "resolved", 3)
	dbtest.SeedLookupStat(t, database, "|ZZ|", "not_found", 1)

	c := &LookupCollector{db: database}
	expected := `
# HELP airline_query_lookups_total Total lookup count per query key by outcome
# TYPE airline_query_lookups_total counter
airline_query_lookups_total{outcome="not_found",query="|ZZ|"} 1
airline_query_lookups_total{outcome="resolved",query="tap air portugal||"} 3
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "airline_query_lookups_total"))
}
