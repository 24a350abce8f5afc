package services

// Prompt and schema constants for the structured AI calls. Schemas are
// compiled once at service construction.

const rankSystemPrompt = `You judge the relevance of content items to a project.
For each candidate, decide how relevant it is to the project described
by the user, on a scale from 0 (unrelated) to 1 (central). Be strict:
an item mentioning the same people but a different matter is not
relevant. Judge every candidate you are given, by its index.`

const rankSchemaDef = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "index": {"type": "integer", "minimum": 0},
      "score": {"type": "number", "minimum": 0, "maximum": 1},
      "reason": {"type": "string"}
    },
    "required": ["index", "score"],
    "additionalProperties": false
  }
}`

const contactsSystemPrompt = `You extract the people involved in a set of records.
Return each distinct person once, with whatever of their name, email,
role, and organization the records reveal. Only include real people
actually present in the records; never invent anyone.`

const contactsSchemaDef = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "email": {"type": "string"},
      "role": {"type": "string"},
      "organization": {"type": "string"}
    },
    "required": ["name"],
    "additionalProperties": false
  }
}`

const deepDiveSystemPrompt = `You are a sharp chief of staff analysing one project.
The material opens with a GROUND TRUTH block: the owner's own framing
of what this project is and what success means. Interpret everything
else strictly through that lens. Produce a concise summary of where
the project stands and the concrete next steps the owner should take.`

const deepDiveSchemaDef = `{
  "type": "object",
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "next_steps": {
      "type": "array",
      "items": {"type": "string"}
    },
    "urgency": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["summary", "next_steps"],
  "additionalProperties": false
}`
