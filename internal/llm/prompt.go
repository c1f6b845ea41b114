package llm

import (
	"fmt"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
)

// Document is one publication rendered for prompt inclusion.
type Document struct {
	ID       int64
	Title    string
	Abstract string
	URL      string
}

func (d Document) render() string {
	return fmt.Sprintf("[ID %d] Title: %s\nAbstract: %s\nURL: %s", d.ID, d.Title, d.Abstract, d.URL)
}

var summaryPersonaNotes = map[model.Persona]string{
	model.PersonaScientist: "Emphasize hypotheses, methods, result robustness, conflicts/consensus.",
	model.PersonaManager:   "Emphasize impact, gaps, opportunities, funding relevance, readiness.",
	model.PersonaArchitect: "Emphasize platform, exposure, risks, operational implications for missions.",
}

var qaPersonaNotes = map[model.Persona]string{
	model.PersonaScientist: "Answer like a domain expert. Provide evidence from Results.",
	model.PersonaManager:   "Answer with impact, opportunity, and risk in plain terms, cited.",
	model.PersonaArchitect: "Answer with platform, exposure and operational implications, cited.",
}

var sectionNotes = map[model.SectionPriority]string{
	model.SectionResults:    "Prefer Results over other sections.",
	model.SectionDiscussion: "Balance Discussion with Results; note uncertainties.",
	model.SectionConclusion: "Include forward-looking insights from Conclusions.",
}

const defaultSectionNote = "Prefer Results over Discussion/Conclusion."
const defaultQANote = "Provide concise, factual, cited answers."

// SummaryPrompt builds the structured summarization prompt over the given
// documents, shaped by persona and section priority.
func SummaryPrompt(docs []Document, persona model.Persona, priority model.SectionPriority) string {
	personaNote := summaryPersonaNotes[persona]
	sectionNote, ok := sectionNotes[priority]
	if !ok {
		sectionNote = defaultSectionNote
	}

	var b strings.Builder
	b.WriteString("You are an assistant summarizing NASA space bioscience studies (PubMed Central full texts). ")
	if personaNote != "" {
		b.WriteString(personaNote)
		b.WriteString(" ")
	}
	b.WriteString(sectionNote)
	b.WriteString(" ")
	b.WriteString("Follow NASA guidance: prefer objectively demonstrated information from Results; identify gaps, consensus/discord; provide actionable insights. ")
	b.WriteString("Output in the following structured bullets (concise, factual, no fluff):\n")
	b.WriteString("- Objective: What was studied and why.\n")
	b.WriteString("- Platform/Exposure: Vehicle/platform (e.g., ISS/Shuttle), exposure (microgravity, radiation, duration).\n")
	b.WriteString("- Organism/Tissue: Species/cell/tissue.\n")
	b.WriteString("- Main Results: Results-first, quantitative where possible. Cite IDs like [ID 123].\n")
	b.WriteString("- Consensus vs Conflict: Note agreement/disagreement across included IDs.\n")
	b.WriteString("- Gaps & Limitations: What is unknown or underpowered.\n")
	b.WriteString("- Actionable Insights: (tailor to persona) concrete next steps, investment or ops decisions.\n")
	b.WriteString("- Risks/Impact: Mission risk or biological impact notes (esp. for architects).\n")
	b.WriteString("- References: list the provided URLs.\n\n")

	rendered := make([]string, len(docs))
	for i, d := range docs {
		rendered[i] = d.render()
	}
	b.WriteString(strings.Join(rendered, "\n\n"))
	return b.String()
}

// QAPrompt builds the single-study question answering prompt.
func QAPrompt(doc Document, question string, persona model.Persona) string {
	personaNote, ok := qaPersonaNotes[persona]
	if !ok {
		personaNote = defaultQANote
	}

	var b strings.Builder
	b.WriteString("You are assisting with NASA space bioscience Q&A. ")
	b.WriteString(personaNote)
	b.WriteString(" ")
	b.WriteString("Use only the provided study content. Prefer Results over other sections. ")
	fmt.Fprintf(&b, "If uncertain, say so explicitly. Always include short inline citations like [ID %d] and list the source URL.\n\n", doc.ID)
	fmt.Fprintf(&b, "Study [ID %d]\nTitle: %s\nAbstract: %s\nURL: %s\n\n", doc.ID, doc.Title, doc.Abstract, doc.URL)
	fmt.Fprintf(&b, "Question: %s\n", question)
	b.WriteString("Answer (concise bullets where possible):")
	return b.String()
}
