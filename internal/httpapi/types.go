package httpapi

import "jobboard-engine/internal/domain"

// BoardJob is a job annotated with the company it belongs to, for the
// flattened all-companies board view.
type BoardJob struct {
	domain.Job
	CompanyName string `json:"companyName"`
	CompanySlug string `json:"companySlug"`
	CompanyLogo string `json:"companyLogo,omitempty"`
}

type addJobRequest struct {
	CompanyID   string     `json:"companyId"`
	Job         domain.Job `json:"job"`
	DateUpdated string     `json:"dateUpdated,omitempty"`
}

type deleteJobRequest struct {
	JobTitle string `json:"jobTitle"`
}

type crawlRequest struct {
	CompanyID string `json:"companyId"`
	URL       string `json:"url"`
}

type mergeResponse struct {
	Success   bool `json:"success"`
	JobsCount int  `json:"jobsCount"`
	JobAdded  bool `json:"jobAdded"`
}

type deleteResponse struct {
	Success    bool `json:"success"`
	JobsCount  int  `json:"jobsCount"`
	JobRemoved bool `json:"jobRemoved"`
}
