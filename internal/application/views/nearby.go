package views

import (
	"math"
	"sort"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// NearbyPlace is an establishment location with its distance from the user
type NearbyPlace struct {
	Establishment *entities.Establishment
	Location      entities.Location
	DistanceKm    float64
}

// Nearby returns, for each establishment with coordinates, its closest location
// to (lat, lon), nearest first. A radiusKm of zero or less disables the cutoff.
func Nearby(establishments []entities.Establishment, lat, lon, radiusKm float64) []NearbyPlace {
	var places []NearbyPlace
	for i := range establishments {
		e := &establishments[i]
		best := -1.0
		var bestLoc entities.Location
		for _, loc := range e.Locations {
			if loc.Latitude == 0 && loc.Longitude == 0 {
				continue
			}
			d := DistanceKm(lat, lon, loc.Latitude, loc.Longitude)
			if best < 0 || d < best {
				best = d
				bestLoc = loc
			}
		}
		if best < 0 || (radiusKm > 0 && best > radiusKm) {
			continue
		}
		places = append(places, NearbyPlace{Establishment: e, Location: bestLoc, DistanceKm: best})
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceKm < places[j].DistanceKm
	})
	return places
}

// DistanceKm is the great-circle (Haversine) distance between two points
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
