package job

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/geo"
)

// merge applies the post-fan-out pipeline: blacklist, id backfill,
// coordinate backfill and radius filter, dedup, then a stable sort by
// distance. Batches are consumed in connector registration order.
func (a *Aggregator) merge(batches [][]domain.Job, radiusKm float64, center domain.SearchCenter) []domain.Job {
	origin := geo.Point{Lat: center.Latitude, Lng: center.Longitude}

	kept := make([]domain.Job, 0)
	slot := make(map[string]int)

	for _, batch := range batches {
		for _, j := range batch {
			if a.isBlacklisted(j.Company.DisplayName) {
				continue
			}
			if j.ID == "" {
				j.ID = domain.DeriveJobID(j.Title, j.Company.DisplayName, j.Location.Area)
			}

			place(&j, origin)
			if *j.Distance > radiusKm {
				continue
			}

			key := j.DedupKey()
			if i, ok := slot[key]; ok {
				if j.Populated() > kept[i].Populated() {
					kept[i] = j
				}
				continue
			}
			slot[key] = len(kept)
			kept = append(kept, j)
		}
	}

	uniqueIDs(kept)

	slices.SortStableFunc(kept, func(x, y domain.Job) int {
		return cmp.Compare(*x.Distance, *y.Distance)
	})
	return kept
}

// place backfills coordinates and sets the distance from origin.
// A distance the connector already computed is kept.
func place(j *domain.Job, origin geo.Point) {
	if !j.HasCoordinates() {
		j.Latitude = domain.Float(origin.Lat)
		j.Longitude = domain.Float(origin.Lng)
		j.Distance = domain.Float(0)
		return
	}
	if j.Distance == nil {
		d := geo.DistanceKm(origin, geo.Point{Lat: *j.Latitude, Lng: *j.Longitude})
		j.Distance = &d
	}
}

// uniqueIDs re-derives ids that collide with an earlier record
func uniqueIDs(jobs []domain.Job) {
	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		id := jobs[i].ID
		if _, dup := seen[id]; dup {
			id = domain.DeriveJobID(jobs[i].Title, jobs[i].Company.DisplayName, append(slices.Clone(jobs[i].Location.Area), jobs[i].SourceAPI))
			for n := 2; ; n++ {
				if _, taken := seen[id]; !taken {
					break
				}
				id = jobs[i].ID + "-" + strconv.Itoa(n)
			}
			jobs[i].ID = id
		}
		seen[id] = struct{}{}
	}
}

func (a *Aggregator) isBlacklisted(company string) bool {
	if len(a.blacklist) == 0 {
		return false
	}
	_, ok := a.blacklist[normalizeName(company)]
	return ok
}
