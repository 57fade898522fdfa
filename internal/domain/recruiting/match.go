package recruiting

import (
	"math"
	"sort"
	"strings"
)

// Score weights. They sum to 100.
const (
	weightRequired   = 60.0
	weightNiceToHave = 25.0
	weightTitle      = 15.0
)

// Resume is the already-extracted view of a candidate's resume.
type Resume struct {
	Name    string   `json:"name"`
	Skills  []string `json:"skills"`
	Summary string   `json:"summary"`
}

type ScoreBreakdown struct {
	Required   float64 `json:"required"`
	NiceToHave float64 `json:"niceToHave"`
	Title      float64 `json:"title"`
}

type MatchResult struct {
	JobID     string         `json:"jobId"`
	JobTitle  string         `json:"jobTitle"`
	Company   string         `json:"company"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Matched   []string       `json:"matched"`
	Missing   []string       `json:"missing"`
}

// Match scores resume against job with a weighted sum of three containment
// ratios: required skills, nice-to-have skills and title keywords. An empty
// category earns its full weight.
func Match(resume Resume, job Job) MatchResult {
	haystack := resumeText(resume)

	reqHit, reqMatched, reqMissing := containment(job.Required, resume.Skills, haystack)
	niceHit, niceMatched, _ := containment(job.NiceToHave, resume.Skills, haystack)
	titleHit, _, _ := containment(titleKeywords(job.Title), resume.Skills, haystack)

	breakdown := ScoreBreakdown{
		Required:   round1(weightRequired * reqHit),
		NiceToHave: round1(weightNiceToHave * niceHit),
		Title:      round1(weightTitle * titleHit),
	}

	matched := append(reqMatched, niceMatched...)
	sort.Strings(matched)
	sort.Strings(reqMissing)

	return MatchResult{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Score:     round1(breakdown.Required + breakdown.NiceToHave + breakdown.Title),
		Breakdown: breakdown,
		Matched:   matched,
		Missing:   reqMissing,
	}
}

// RankJobs matches resume against every job, best score first.
func RankJobs(resume Resume, jobs []Job) []MatchResult {
	results := make([]MatchResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, Match(resume, job))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func containment(terms, skills []string, haystack string) (float64, []string, []string) {
	matched, missing := []string{}, []string{}
	if len(terms) == 0 {
		return 1, matched, missing
	}

	for _, term := range terms {
		if hasTerm(term, skills, haystack) {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}
	return float64(len(matched)) / float64(len(terms)), matched, missing
}

func hasTerm(term string, skills []string, haystack string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if s == t || strings.Contains(s, t) || (len(s) > 2 && strings.Contains(t, s)) {
			return true
		}
	}
	return strings.Contains(haystack, t)
}

func resumeText(resume Resume) string {
	return strings.ToLower(resume.Summary + " " + strings.Join(resume.Skills, " "))
}

// titleKeywords drops short words and seniority noise from a job title.
func titleKeywords(title string) []string {
	noise := map[string]bool{"senior": true, "junior": true, "lead": true, "staff": true, "engineer": true}

	var kws []string
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == ' ' || r == '/' || r == '(' || r == ')' || r == '-' || r == ','
	}) {
		if len(w) < 2 || noise[w] {
			continue
		}
		kws = append(kws, w)
	}
	return kws
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
