// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts holds the text/template prompts sent to the language model
// and the data each one is rendered with.
package prompts

import (
	"bytes"
	"fmt"
	"text/template"
)

// SectionAgentData fills SectionAgent.
type SectionAgentData struct {
	Topic   string // the raw topic line, e.g. "Topic: Falcon LLM"
	Section string // the outline block for one section
	Context string // summaries gathered for the whole topic
}

// SectionAgent instructs the tool-using agent to research and write one
// blog section.
var SectionAgent = template.Must(template.New("section_agent").Parse(`You are a blog writing assistant. First research the topic and the blog section, then write only the content of the specified blog section.
Write about the topic following the blog section outline below. Make the section in depth, easy to understand and clear for the readers.
You may use the general information under "Topic Context:" to write the section.
Never search for the same thing twice. Change your search queries to retrieve new, relevant information for the section.


Topic:
{{.Topic}}


Blog Section Outline:
{{.Section}}


Topic Context:
{{.Context}}


Strictly follow these steps:
1. Research exactly the blog section given above on the internet, including any search topics listed in it.
2. Keep searching until you have enough information to write the section.
3. Using what you found, write the specified blog section.
4. Return the blog section content in markdown.


Blog Section Content:
`))

// SectionRetrievalData fills SectionRetrieval.
type SectionRetrievalData struct {
	Topic   string
	Context string // retrieved passages joined by newlines
	Section string
}

// SectionRetrieval asks for one section written from retrieved passages.
var SectionRetrieval = template.Must(template.New("section_retrieval").Parse(`You are a blog writing assistant. Your job is to write only the content of the specified blog section.
Write about the specified blog section using the context below. Use the context for inspiration and add any further information you think is necessary.
Make the section in depth, easy to understand and clear for the readers.


Topic:
{{.Topic}}


Context:
{{.Context}}


Blog Section:
{{.Section}}


Follow these steps:
1. Use the context provided to write about the specified blog section.
2. Return the blog section content in markdown.


Blog Section Content:
`))

// RewriteData fills Rewrite.
type RewriteData struct {
	Topic string
	Draft string
}

// Rewrite polishes the combined draft into the final blog.
var Rewrite = template.Must(template.New("rewrite").Parse(`You are a skilled blog writer who produces high quality blog posts. Keep the same sections and headings.
Rewrite the blog below about the given topic. Make it less repetitive and redundant, and include only one conclusion at the end.
The blog must be interesting to the reader. Use transition words. Use active voice. Write over 1000 words.
Make the blog more complete, descriptive, easy to understand and clear for the readers.
Explain {{.Topic}} with clear and accurate analogies or examples.


Topic:
{{.Topic}}


Blog:
{{.Draft}}
`))

// SummarizeData fills Summarize.
type SummarizeData struct {
	Text string
}

// Summarize condenses one fetched page.
var Summarize = template.Must(template.New("summarize").Parse(`Write a detailed summary that captures all relevant information of the following text:


"{{.Text}}"


DETAILED SUMMARY:`))

// Render executes tmpl with data.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
