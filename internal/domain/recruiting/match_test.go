package recruiting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMatch_FullOverlap(t *testing.T) {
	job := Job{
		ID:         "j1",
		Title:      "Backend Engineer",
		Required:   []string{"Go", "SQL"},
		NiceToHave: []string{"Kafka"},
	}
	resume := Resume{
		Skills:  []string{"go", "sql", "kafka"},
		Summary: "Backend developer for eight years",
	}

	res := Match(resume, job)
	if res.Score != 100 {
		t.Errorf("Expected score 100, got %v (%+v)", res.Score, res.Breakdown)
	}
	if len(res.Missing) != 0 {
		t.Errorf("Expected no missing skills, got %v", res.Missing)
	}
}

func TestMatch_PartialOverlap(t *testing.T) {
	job := Job{
		ID:         "j1",
		Title:      "Data Engineer",
		Required:   []string{"Python", "SQL", "Airflow", "Spark"},
		NiceToHave: []string{"dbt", "AWS"},
	}
	resume := Resume{Skills: []string{"Python", "PostgreSQL"}}

	res := Match(resume, job)

	// required: python + sql (contained in "postgresql") = 2/4 -> 30
	// nice to have: 0/2 -> 0, title "data": 0/1 -> 0
	if res.Breakdown.Required != 30 {
		t.Errorf("Expected required 30, got %v", res.Breakdown.Required)
	}
	if res.Score != 30 {
		t.Errorf("Expected score 30, got %v", res.Score)
	}
	if len(res.Missing) != 2 || res.Missing[0] != "Airflow" || res.Missing[1] != "Spark" {
		t.Errorf("Unexpected missing list: %v", res.Missing)
	}
}

func TestMatch_NoOverlap(t *testing.T) {
	job := Job{
		Title:      "Frontend Engineer",
		Required:   []string{"React"},
		NiceToHave: []string{"CSS"},
	}
	res := Match(Resume{Skills: []string{"Cobol"}}, job)
	if res.Score != 0 {
		t.Errorf("Expected score 0, got %v", res.Score)
	}
}

func TestMatch_EmptyCategoryEarnsFullWeight(t *testing.T) {
	job := Job{Title: "Engineer", Required: []string{"Go"}}
	res := Match(Resume{Skills: []string{"Go"}}, job)
	if res.Score != 100 {
		t.Errorf("Expected score 100, got %v (%+v)", res.Score, res.Breakdown)
	}
}

func TestMatch_EmptyListsEncodeAsArrays(t *testing.T) {
	job := Job{ID: "j1", Title: "Engineer", Required: []string{"Rust"}}

	res := Match(Resume{}, job)
	if res.Matched == nil || res.Missing == nil {
		t.Fatalf("Expected non-nil lists, got matched=%v missing=%v", res.Matched, res.Missing)
	}

	noReq := Match(Resume{Skills: []string{"Rust"}}, Job{ID: "j2", Title: "Engineer"})
	data, err := json.Marshal(noReq)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("Expected empty arrays instead of null, got %s", data)
	}
}

func TestRankJobs_SortsDescending(t *testing.T) {
	resume := Resume{Skills: []string{"Kubernetes", "Terraform", "Linux", "Go"}}
	results := RankJobs(resume, Catalog())

	if len(results) != len(Catalog()) {
		t.Fatalf("Expected %d results, got %d", len(Catalog()), len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Fatalf("Results not sorted: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
	if results[0].JobID != "job-devops" {
		t.Errorf("Expected devops job first, got %s", results[0].JobID)
	}
}

func TestFindJob(t *testing.T) {
	if _, err := FindJob("job-backend-go"); err != nil {
		t.Errorf("Expected job to be found: %v", err)
	}
	if _, err := FindJob("nope"); err != ErrJobNotFound {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestConversation_CloneIsIndependent(t *testing.T) {
	now := time.Now()
	conv := NewConversation("u1", "job-backend-go", now)
	conv.AddMessage(RoleHR, "Hello", now)

	cp := conv.Clone()
	conv.AddMessage(RoleCandidate, "Hi", now)

	if len(cp.Messages) != 1 {
		t.Errorf("Clone should not see later messages, got %d", len(cp.Messages))
	}
	if cp.KeyPoints == nil {
		t.Error("Clone should keep an empty, non-nil key point list")
	}
}
