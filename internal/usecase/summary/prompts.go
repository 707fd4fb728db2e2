package summary

import "strings"

// templateMetaPrompt instructs the model to act as a prompt engineer:
// deconstruct the example protocol and emit a reusable system prompt
// plus a structural template.
func templateMetaPrompt(exampleProtocol, userInstructions string) string {
	var b strings.Builder

	b.WriteString(`You are a world-class prompt engineering system. Your mission is to deconstruct a user-provided example of a meeting protocol and generate a high-fidelity, reusable AI configuration (a system prompt and a template) from it. This configuration will be used by another AI to generate future protocols in the exact same style.

---
**INPUT PROTOCOL EXAMPLE:**
`)
	b.WriteString(exampleProtocol)
	b.WriteString("\n---")

	if trimmed := strings.TrimSpace(userInstructions); trimmed != "" {
		b.WriteString("\n---\n**ADDITIONAL USER INSTRUCTIONS:**\n")
		b.WriteString(trimmed)
		b.WriteString("\n---")
	}

	b.WriteString(`

Your task is to follow this two-step process meticulously:

**Step 1: Deep Analysis**
First, perform a deep analysis of the provided example. Internally, identify the following patterns:
-   **Tone & Style:** Is it formal, informal, technical, decisive? What is the vocabulary and sentence structure? The language of the final prompt must match the language of this example.
-   **Data Extraction:** Identify all dynamic data points (e.g., meeting title, date, list of participants).
-   **Structural Formatting:** Deconstruct the exact markdown structure. Note the use of headers, tables, bold/italic emphasis, blockquotes, and lists. Pay special attention to how action items and decisions are formatted.
-   **Repeating Elements:** Identify elements that appear in a list, such as participants and agenda points. This is crucial for the template.

**Step 2: Generate the Configuration**
Using your analysis, you will construct the two required outputs.

**Output 1: ` + "`ai_generated_prompt`" + ` - The System Prompt**
This is not just a summary of the style; it is a direct, actionable set of instructions for another AI. It must be comprehensive and clear.
-   **Persona:** It must start by giving the next AI a clear persona (e.g., "You are an expert executive assistant...").
-   **Goal:** It must state the primary goal (e.g., "...your task is to convert a raw meeting transcript into a structured protocol...").
-   **Key Rules:** It must include a "Key Rules" section with specific, bullet-pointed instructions derived from your analysis.
-   **Handling Variable Items (CRITICAL):** The prompt MUST include a rule explaining how to handle a variable number of agenda items with the fixed number of placeholders in the template. If given fewer items than placeholders, unused placeholder sections must be omitted entirely from the final output. If given more items, the formatting of the last placeholder must be replicated for each additional item.

**Output 2: ` + "`ai_generated_template`" + ` - The Structural Template**
This is the most critical part. The template must be a **structurally identical replica** of the example protocol, with only the specific data values replaced by placeholders.
-   **Placeholder Convention:**
    -   For single values, use {{PLACEHOLDER_NAME}} (e.g., {{MEETING_TITLE}}, {{DATE}}).
    -   For lists of items (like participants or agenda topics), generate **exactly three** numbered placeholders to establish the pattern (e.g., {{AGENDA_TOPIC_1}}, {{AGENDA_TOPIC_2}}, {{AGENDA_TOPIC_3}}).
-   **Absolute Preservation:** You MUST preserve ALL markdown formatting, including headers, tables, lists, whitespace, and any static text or punctuation. DO NOT add, remove, or alter the structure.

---
**FINAL OUTPUT INSTRUCTIONS:**
Respond with **ONLY a valid JSON object** containing exactly two keys: "ai_generated_prompt" and "ai_generated_template". Do not include any other text, explanations, or markdown formatting around the JSON.`)

	return b.String()
}

// editPrompt instructs the model to apply one edit instruction to
// protocol markdown without disturbing anything else
func editPrompt(currentContent, editInstruction string) string {
	return `You are an expert at editing meeting protocols. Your task is to apply the user's edit instruction to the provided markdown content.

**CRITICAL INSTRUCTIONS - READ AND FOLLOW THESE EXACTLY:**

1. **EXTREME PRECISION IN UPDATES - ONLY MODIFY WHAT IS REQUESTED:**
   - **YOU MUST ONLY UPDATE THE SPECIFIC PARTS THAT ARE EXPLICITLY REQUESTED TO BE CHANGED IN THE EDIT INSTRUCTION.**
   - **DO NOT MODIFY, ALTER, OR UPDATE ANY OTHER PARTS OF THE PROTOCOL UNDER ANY CIRCUMSTANCES.**
   - **KEEP ALL EXISTING CONTENT, FORMATTING, AND STRUCTURE EXACTLY AS PROVIDED IN THE CURRENT CONTENT.**
   - **ONLY MAKE CHANGES TO THE EXACT SECTIONS, WORDS, OR PHRASES MENTIONED IN THE EDIT INSTRUCTION.**

2. **PRESERVE USER'S EXACT TONE AND STYLE:**
   - **MAINTAIN THE EXACT TONE, VOICE, AND WRITING STYLE FROM THE ORIGINAL PROTOCOL CONTENT.**
   - **DO NOT CHANGE THE LEVEL OF FORMALITY, WORD CHOICE, OR EXPRESSIONS USED IN THE ORIGINAL.**
   - **IF THE ORIGINAL USES SPECIFIC ABBREVIATIONS, ACRONYMS, OR JARGON, PRESERVE THEM EXACTLY.**

3. **EDITING RULES:**
   - Apply ONLY the specific changes requested in the edit instruction.
   - Maintain the markdown formatting and structure of the entire document.
   - Do not add or remove content unless specifically instructed in the edit instruction.
   - Do not reorganize or restructure the document unless explicitly requested.

Current protocol content:
` + currentContent + `

User's edit instruction: "` + editInstruction + `"

Please apply this edit instruction to the protocol content following the critical instructions above.

Return ONLY the updated markdown content, nothing else. Do not include any explanations or additional text.`
}
