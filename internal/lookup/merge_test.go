package lookup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"airlinelookup/internal/models"
	"airlinelookup/internal/sources"
)

func fullRecord(v string) *models.AirlineRecord {
	r := &models.AirlineRecord{}
	for _, f := range models.AllFields {
		r.Set(f, v+"-"+string(f))
	}
	return r
}

func TestMergeWithEmptyKeepsFirst(t *testing.T) {
	a := &models.AirlineRecord{Name: "TAP Air Portugal", ICAO: "TAP", FleetSize: "99"}

	got := Merge(sources.Succeeded("a", a), sources.Succeeded("b", &models.AirlineRecord{}))
	assert.Equal(t, *a, *got)
}

func TestMergeFullLaterOverrides(t *testing.T) {
	a := &models.AirlineRecord{Name: "A", IATA: "AA"}
	b := fullRecord("b")

	got := Merge(sources.Succeeded("a", a), sources.Succeeded("b", b))
	assert.Equal(t, *b, *got)
}

func TestMergeFieldIndependent(t *testing.T) {
	primary := &models.AirlineRecord{Name: "TAP Air Portugal", FleetSize: "99", AircraftTypes: "A320"}
	airfleets := &models.AirlineRecord{FleetSize: "64"}
	planespotters := &models.AirlineRecord{AircraftTypes: "3xA330neo"}

	got := Merge(
		sources.Succeeded("primary", primary),
		sources.Succeeded("airfleets", airfleets),
		sources.Succeeded("planespotters", planespotters),
	)

	assert.Equal(t, "TAP Air Portugal", got.Name)
	assert.Equal(t, "64", got.FleetSize)
	assert.Equal(t, "3xA330neo", got.AircraftTypes)
	assert.Equal(t, "99", primary.FleetSize, "inputs are not modified")
}

func TestMergeIgnoresFailedResults(t *testing.T) {
	a := &models.AirlineRecord{Name: "A"}

	got := Merge(
		sources.Succeeded("a", a),
		sources.Failed("b", errors.New("boom")),
		sources.Result{Source: "c", Record: fullRecord("c"), Err: sources.ErrTimeout},
		sources.Result{Source: "d"},
	)
	assert.Equal(t, *a, *got)
}

func TestMergeNothing(t *testing.T) {
	assert.True(t, Merge().IsEmpty())
}
