package recruiting

// Job is a mock listing shown to job seekers.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	NiceToHave  []string `json:"niceToHave"`
}

var catalog = []Job{
	{
		ID:          "job-backend-go",
		Title:       "Senior Backend Engineer (Go)",
		Company:     "Northwind Labs",
		Location:    "Remote",
		Salary:      "$150k - $180k",
		Description: "Own the event delivery platform that powers our realtime dashboards.",
		Required:    []string{"Go", "PostgreSQL", "Distributed Systems", "REST"},
		NiceToHave:  []string{"Kubernetes", "Kafka", "gRPC"},
	},
	{
		ID:          "job-frontend-react",
		Title:       "Frontend Engineer",
		Company:     "Blue Harbor",
		Location:    "Berlin",
		Salary:      "€70k - €85k",
		Description: "Build candidate-facing experiences for our hiring marketplace.",
		Required:    []string{"TypeScript", "React", "CSS"},
		NiceToHave:  []string{"Next.js", "Accessibility", "Testing Library"},
	},
	{
		ID:          "job-data-engineer",
		Title:       "Data Engineer",
		Company:     "Quarry Analytics",
		Location:    "London",
		Salary:      "£75k - £90k",
		Description: "Design pipelines that turn raw hiring signals into insights.",
		Required:    []string{"Python", "SQL", "Airflow"},
		NiceToHave:  []string{"Spark", "dbt", "AWS"},
	},
	{
		ID:          "job-ml-engineer",
		Title:       "Machine Learning Engineer",
		Company:     "Lumen AI",
		Location:    "San Francisco",
		Salary:      "$170k - $210k",
		Description: "Ship ranking models that match candidates with the right roles.",
		Required:    []string{"Python", "PyTorch", "Machine Learning"},
		NiceToHave:  []string{"LLM", "Kubernetes", "Go"},
	},
	{
		ID:          "job-devops",
		Title:       "Platform / DevOps Engineer",
		Company:     "Northwind Labs",
		Location:    "Remote",
		Salary:      "$140k - $165k",
		Description: "Keep our clusters boring and our deploys fast.",
		Required:    []string{"Kubernetes", "Terraform", "Linux"},
		NiceToHave:  []string{"Go", "Prometheus", "AWS"},
	},
}

// Catalog returns a copy of the mock job listings.
func Catalog() []Job {
	jobs := make([]Job, len(catalog))
	copy(jobs, catalog)
	return jobs
}

func FindJob(id string) (Job, error) {
	for _, job := range catalog {
		if job.ID == id {
			return job, nil
		}
	}
	return Job{}, ErrJobNotFound
}
