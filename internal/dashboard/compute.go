package dashboard

import "math"

var taskStatuses = []string{"todo", "in_progress", "done", "blocked"}

// Compute derives earned value metrics from project facts.
func Compute(f ProjectFacts) Metrics {
	m := Metrics{
		ProjectID:  f.ProjectID,
		Name:       f.Name,
		Status:     f.Status,
		BAC:        f.Budget,
		PV:         f.PlannedToDate,
		AC:         f.ActualCost,
		TaskCounts: make(map[string]int, len(taskStatuses)),
	}
	for _, s := range taskStatuses {
		m.TaskCounts[s] = 0
	}
	var sum float64
	for _, t := range f.Tasks {
		m.TaskCounts[t.Status]++
		if t.HasProgress {
			sum += t.Percent
		}
	}
	if len(f.Tasks) > 0 {
		m.PercentComplete = sum / float64(len(f.Tasks))
	}
	m.EV = m.BAC * m.PercentComplete / 100
	m.CV = m.EV - m.AC
	m.SV = m.EV - m.PV
	m.CPI = ratio(m.EV, m.AC)
	m.SPI = ratio(m.EV, m.PV)
	return m.rounded()
}

// Aggregate sums the per-project metrics; indices are recomputed from the sums.
func Aggregate(metrics []Metrics) Totals {
	t := Totals{Projects: len(metrics)}
	for _, m := range metrics {
		for _, n := range m.TaskCounts {
			t.Tasks += n
		}
		t.BAC += m.BAC
		t.EV += m.EV
		t.PV += m.PV
		t.AC += m.AC
	}
	t.CV = round2(t.EV - t.AC)
	t.SV = round2(t.EV - t.PV)
	t.CPI = round2(ratio(t.EV, t.AC))
	t.SPI = round2(ratio(t.EV, t.PV))
	t.BAC, t.EV, t.PV, t.AC = round2(t.BAC), round2(t.EV), round2(t.PV), round2(t.AC)
	return t
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func (m Metrics) rounded() Metrics {
	m.PercentComplete = round2(m.PercentComplete)
	m.EV = round2(m.EV)
	m.PV = round2(m.PV)
	m.AC = round2(m.AC)
	m.CV = round2(m.CV)
	m.SV = round2(m.SV)
	m.CPI = round2(m.CPI)
	m.SPI = round2(m.SPI)
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
