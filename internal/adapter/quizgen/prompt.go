package quizgen

import "fmt"

// QuestionsPerQuiz is the number of questions the model is instructed to
// produce. The parser tolerates fewer as long as the structure is valid.
const QuestionsPerQuiz = 10

const systemPrompt = `You are a Quiz Generation AI. Your task is to create a quiz based on the provided transcript.

The quiz you create must follow this exact structure:

{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in around 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer from the above options"
    },
    ...
    (exactly %d questions)
  ]
}

Requirements:
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is.
- Do not include explanations, comments, or any text outside the JSON.`

// BuildPrompt renders the system and user instructions for quiz generation.
// It is a pure function: the transcript is embedded verbatim, truncated to
// the first maxChars runes to respect the model's context limit.
func BuildPrompt(transcript string, maxChars int) (system string, user string) {
	if maxChars > 0 {
		runes := []rune(transcript)
		if len(runes) > maxChars {
			transcript = string(runes[:maxChars])
		}
	}
	system = fmt.Sprintf(systemPrompt, QuestionsPerQuiz)
	user = fmt.Sprintf("Create a quiz based on the following transcript:\n\n%s\n\n", transcript)
	return system, user
}
