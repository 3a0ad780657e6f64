package aggregate

import "github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"

// ReshapeToLong flattens rows into (group, domain, score) triples, row order
// first and then the order of domains. Undefined scores are dropped.
func ReshapeToLong(rows []domain.GroupScoreRow, domains []domain.DomainCode) []domain.LongPoint {
	out := []domain.LongPoint{}
	for _, row := range rows {
		for _, code := range domains {
			score, ok := row.Score(code)
			if !ok || score == nil {
				continue
			}
			out = append(out, domain.LongPoint{Group: row.Group, Domain: code, Score: *score})
		}
	}
	return out
}

// RadarTraces builds one closed polygon per row. Undefined scores stay nil
// so renderers can leave a gap.
func RadarTraces(rows []domain.GroupScoreRow, domains []domain.DomainCode) []domain.RadarTrace {
	out := make([]domain.RadarTrace, 0, len(rows))
	if len(domains) == 0 {
		return out
	}
	for _, row := range rows {
		tr := domain.RadarTrace{
			Name:  row.Group,
			Theta: make([]domain.DomainCode, 0, len(domains)+1),
			R:     make([]*float64, 0, len(domains)+1),
		}
		for _, code := range domains {
			score, _ := row.Score(code)
			tr.Theta = append(tr.Theta, code)
			tr.R = append(tr.R, score)
		}
		tr.Theta = append(tr.Theta, tr.Theta[0])
		tr.R = append(tr.R, tr.R[0])
		out = append(out, tr)
	}
	return out
}
