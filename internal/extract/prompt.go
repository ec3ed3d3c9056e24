package extract

import "strings"

// DefaultTagVocabulary is the controlled subset the board filters on. Tags
// outside it are dropped by the front end, so the model is told to stick to
// these.
var DefaultTagVocabulary = []string{
	"Engineering",
	"Design",
	"Product",
	"Data",
	"Marketing",
	"Sales",
	"Operations",
	"Finance",
	"Support",
	"Legal",
}

const promptHeader = `You are a job posting extraction expert. Find all job postings in the provided HTML, markdown or text.
Return data in valid JSON format with an array of jobs under the key "jobs".
Each job must have these fields (use null if not found):
- title: job title
- company: company name
- location: work location
- experience: required experience
- skills: array of required skills
- salary: salary information
- type: job type (full-time, part-time, contract)
- description: brief description
- url: the url of the job posting
- tags: array of matching tags, only from this list: `

// SystemPrompt builds the fixed instruction prompt describing the Job schema
// and the tag vocabulary.
func SystemPrompt(tags []string) string {
	if len(tags) == 0 {
		tags = DefaultTagVocabulary
	}
	return promptHeader + strings.Join(tags, ", ")
}
