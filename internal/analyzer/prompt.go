package analyzer

// analysisPrompt instructs the model to ground everything in the diff
// and return the briefing JSON shape verbatim.
const analysisPrompt = `You are analyzing a developer's coding session with an AI assistant.
You are given TWO sources of truth:
1. CODEBASE DIFF — what actually changed in the code (the ground truth)
2. CONVERSATION — the developer's messages and AI responses (the context)

The diff tells you WHAT changed. The conversation tells you WHY.
Use both. When they conflict, trust the diff.

Produce a post-session briefing. Be SPECIFIC — reference actual files,
functions, and patterns from the DIFF. Never be generic.

Return JSON with exactly these fields:

{
  "session_summary": "2-3 sentences. What was built/changed. Reference actual file names and functionality from the diff.",

  "what_got_built": [
    {
      "file": "path/to/file.py",
      "description": "What this file does in plain language",
      "key_code": "The most important function/class and what it does",
      "key_decisions": ["Why X pattern was chosen over Y"]
    }
  ],

  "how_pieces_connect": "2-3 sentences explaining the architecture. How do the files relate? What calls what? Reference actual imports and function names.",

  "patterns_used": [
    {
      "pattern": "Name of pattern (e.g., closure-based DI)",
      "where": "file.py:function_name (from the diff)",
      "explained": "What it does and why, in 1-2 sentences."
    }
  ],

  "will_bite_you": {
    "issue": "The single most likely thing to cause problems",
    "where": "file.py:line or function (be precise)",
    "why": "Why this is fragile or non-obvious",
    "what_to_check": "What to look at when it breaks"
  },

  "concepts_touched": [
    {
      "concept": "e.g., SQLite WAL mode",
      "in_code": "Where this concept appears in the actual diff",
      "developer_understood": true,
      "evidence": "From the conversation: what shows understanding"
    }
  ]
}

Respond with ONLY valid JSON, no markdown fencing.`
