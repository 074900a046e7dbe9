package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

type artistHost struct {
	artist, host string
}

type yearArtistHost struct {
	year         int
	artist, host string
}

type yearHost struct {
	year int
	host string
}

// HostDiscoveries counts, per host, the distinct artists the host has
// played, over cleaned plays. Returns the n hosts with the most, ties
// going to the host name that sorts first.
func HostDiscoveries(clean []dataset.Play, n int) []HostDiscovery {
	pairs := lo.Uniq(lo.FilterMap(clean, func(p dataset.Play, _ int) (artistHost, bool) {
		return artistHost{p.Artist, p.Host}, p.Artist != "" && p.Host != ""
	}))
	counts := lo.CountValuesBy(pairs, func(pair artistHost) string {
		return pair.host
	})

	hosts := make([]HostDiscovery, 0, len(counts))
	for host, count := range counts {
		hosts = append(hosts, HostDiscovery{Host: host, NewArtists: count})
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].NewArtists != hosts[j].NewArtists {
			return hosts[i].NewArtists > hosts[j].NewArtists
		}
		return hosts[i].Host < hosts[j].Host
	})

	if len(hosts) > n {
		hosts = hosts[:n]
	}
	for i := range hosts {
		hosts[i].Rank = i + 1
	}
	return hosts
}

// YearlyDiscoveries counts, per (year, host), the distinct artists played
// that year, restricted to the given hosts. An artist played by the same
// host in two years counts once in each. Undated plays are skipped.
func YearlyDiscoveries(clean []dataset.Play, hosts []HostDiscovery) []YearlyDiscovery {
	wanted := lo.SliceToMap(hosts, func(h HostDiscovery) (string, bool) {
		return h.Host, true
	})

	triples := lo.Uniq(lo.FilterMap(clean, func(p dataset.Play, _ int) (yearArtistHost, bool) {
		if !p.HasTime || p.Artist == "" || !wanted[p.Host] {
			return yearArtistHost{}, false
		}
		return yearArtistHost{p.PlayedAt.Year(), p.Artist, p.Host}, true
	}))
	counts := lo.CountValuesBy(triples, func(t yearArtistHost) yearHost {
		return yearHost{t.year, t.host}
	})

	yearly := make([]YearlyDiscovery, 0, len(counts))
	for key, count := range counts {
		yearly = append(yearly, YearlyDiscovery{Year: key.year, Host: key.host, NewArtists: count})
	}
	sort.Slice(yearly, func(i, j int) bool {
		if yearly[i].Year != yearly[j].Year {
			return yearly[i].Year < yearly[j].Year
		}
		return yearly[i].Host < yearly[j].Host
	})
	return yearly
}
