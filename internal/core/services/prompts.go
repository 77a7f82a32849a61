package services

import (
	"fmt"
	"strings"
)

// tagUnificationPrompt instructs the collaborator to merge a list of raw
// tags into a smaller canonical vocabulary and answer with a bare JSON
// object mapping each input tag to its merged label.
const tagUnificationPrompt = `I will give you a list of tags. You need to unify tags with the following requirements:

1. Tags should be unified and merged to create a shorter list.
   Example 1: "Jobseekers", "Job Hunting" can be all merged into a single tag "Job Search".
   Example 2: "Motivation", "Inspiration", "Drive" can be mapped to "Motivation"
   Example 3: "Personal Growth", "Personal Development", "Self Improvement" can be mapped to "Self Improvement"
   Example 4: "AI/Tech" should be mapped to "AI & Tech" or "AI/Tech" if that is the preferred term.
   Example 5: "Startup" should be mapped to "Startup".
   Example 6: "Career" should be mapped to "Career".
   Example 7: "Personal Story" should be mapped to "Personal Story".
   Example 8: "Industry Insights" should be mapped to "Industry Insights".
   Example 9: "Leadership" should be mapped to "Leadership".
   Example 10: "Productivity" should be mapped to "Productivity".
   Example 11: "Marketing" should be mapped to "Marketing".

2. Each tag should follow title case convention. For example: "Motivation", "Job Search".
3. Output should be a JSON object, with no preamble.
4. The output JSON should have a mapping of original tag and the unified tag.
   For example: {"Jobseekers": "Job Search", "Job Hunting": "Job Search", "Motivation": "Motivation"}

Here is the list of tags:
%s`

// buildTagUnificationPrompt renders the unification prompt for a sorted
// candidate list.
func buildTagUnificationPrompt(candidates []string) string {
	return fmt.Sprintf(tagUnificationPrompt, strings.Join(candidates, ","))
}
