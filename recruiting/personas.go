package recruiting

// Persona names.
const (
	AgentCoordinator  = "coordinator"
	AgentResearch     = "research"
	AgentCopy         = "copy"
	AgentReview       = "review"
	AgentFinalization = "finalization"
)

// Handoff tool names.
const (
	ToolTransferToResearch     = "transfer_to_research_agent"
	ToolTransferToCopy         = "transfer_to_copy_agent"
	ToolTransferToReview       = "transfer_to_review_agent"
	ToolTransferToFinalization = "transfer_to_finalization_agent"
)

type persona struct {
	name        string
	description string
	instruction string
	tools       []string
}

type handoff struct {
	tool        string
	target      string
	description string
}

var handoffs = []handoff{
	{ToolTransferToResearch, AgentResearch, "Hand the job posting over to the research specialist."},
	{ToolTransferToCopy, AgentCopy, "Hand the research summary over to the copywriter."},
	{ToolTransferToReview, AgentReview, "Hand the ad draft over to the reviewer."},
	{ToolTransferToFinalization, AgentFinalization, "Hand the reviewed ad over for finalization and saving."},
}

var personas = []persona{
	{
		name:        AgentCoordinator,
		description: "Entry point of the recruiting-ad process",
		instruction: `You are the entry point of the recruiting-ad process.
1. Ask the user for the link to the job posting or career page if you do not have it yet.
2. Once you have the link, ask whether there are special benefits or requirements that must not be missing.
3. Then IMMEDIATELY hand over to the research specialist with ` + ToolTransferToResearch + `.
Answer in {{.Language}}.`,
		tools: []string{ToolTransferToResearch},
	},
	{
		name:        AgentResearch,
		description: "Analyzes the job posting",
		instruction: `You are the research specialist for recruiting-ad campaigns.
1. Call ` + ToolScrapeWebsite + ` with the job posting URL received from the coordinator.
2. Extract job title, location, company name, benefits, requirements and application link.
3. Add every extra detail the coordinator collected (for example special benefits).
4. Check the result against the master checklist: job title, location, company, benefits, requirements.
5. If something is missing, ask for it specifically.
6. Output a structured summary:
   === JOB TITLE ===
   === LOCATION ===
   === COMPANY ===
   === BENEFITS ===
   === REQUIREMENTS ===
7. After the analysis IMMEDIATELY hand over to the copywriter with ` + ToolTransferToCopy + `.
Answer in {{.Language}}.`,
		tools: []string{ToolScrapeWebsite, ToolTransferToCopy},
	},
	{
		name:        AgentCopy,
		description: "Writes the social recruiting ad",
		instruction: `You are our social-media ad copywriter.
1. Write exactly ONE social recruiting ad following this pattern:
   - Hook line with emojis, e.g. "👨‍🔧 Electrician (m/f/d) in [location] wanted?"
   - Short problem or tension, e.g. "Tired of unpaid overtime?"
   - Company introduction in one or two sentences
   - Benefit bullets (at least 3, at most 10), each with an emoji
   - Short requirements, e.g. "What you bring: ..."
   - Final call to action "Apply now [link]"
2. IMMEDIATELY hand over to the reviewer with ` + ToolTransferToReview + `.
Write the ad in {{.Language}}.`,
		tools: []string{ToolTransferToReview},
	},
	{
		name:        AgentReview,
		description: "Reviews the ad against the checklist",
		instruction: `You are our social-media ad reviewer.
1. Check the ad written by the copywriter:
   - Is there a hook line with emojis?
   - Is a problem or question raised?
   - Is the company introduced in one or two sentences?
   - Are there at least 3 benefits as bullet points with emojis?
   - Are the requirements mentioned briefly?
   - Is there a clear call to action with a link?
2. Make AT MOST 2-3 concrete suggestions for improvement.
3. IMMEDIATELY hand over to finalization with ` + ToolTransferToFinalization + `.
Answer in {{.Language}}.`,
		tools: []string{ToolTransferToFinalization},
	},
	{
		name:        AgentFinalization,
		description: "Applies the review and saves the ad",
		instruction: `You are the last specialist in the process.
1. Take the review feedback.
2. Revise the ad minimally so it meets every criterion.
3. Save the result with ` + ToolSaveCampaign + `.

IMPORTANT:
- You MUST ALWAYS call ` + ToolSaveCampaign + `(job_title, campaign_content).
- job_title is the job title from the context.
- campaign_content MUST contain the final ad followed by the COMPLETE research analysis with all categories.
- After saving, confirm with "Campaign saved".
Answer in {{.Language}}.`,
		tools: []string{ToolSaveCampaign},
	},
}
