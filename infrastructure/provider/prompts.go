package provider

import "fmt"

// Prompt templates for the fitness coach. Kept next to the provider so
// model-specific phrasing lives in one place.

const summarySystemPrompt = `You are a fitness coach summarizing a user's workout.
Respond with a JSON object containing exactly two keys:
  "summaryText": a short motivational paragraph summarizing the workout,
  "facts": an object with any of: "volume", "intensity", "focusPoints"
  (array of strings), "calories" (number), "durationMinutes" (number).
Only include facts you can infer from the workout. Do not invent numbers.`

// SummaryMessages builds the prompt for workout summary generation.
func SummaryMessages(title, description, details string) []Message {
	user := fmt.Sprintf("Title: %s\n\nDescription: %s\n\nDetails:\n%s", title, description, details)
	return []Message{
		SystemMessage(summarySystemPrompt),
		UserMessage(user),
	}
}

const coachSystemPrompt = `You are a personal fitness coach. Answer the user's question using
their profile and the numbered workout summaries provided as context.
Respond with a JSON object containing:
  "answer": your answer as plain text,
  "suggestedNextSteps": up to 3 short actionable suggestions,
  "references": the numbers of the workout summaries you relied on.`

// CoachMessages builds the prompt for a buffered coach answer.
func CoachMessages(profileContext, workoutContext, question string) []Message {
	user := fmt.Sprintf("User profile:\n%s\n\nRecent workouts:\n%s\n\nQuestion: %s",
		profileContext, workoutContext, question)
	return []Message{
		SystemMessage(coachSystemPrompt),
		UserMessage(user),
	}
}

const coachStreamSystemPrompt = `You are a personal fitness coach. Answer the user's question using
their profile and the numbered workout summaries provided as context.
Write your answer as plain text. After the answer, write the exact
delimiter %s on its own, followed by a JSON object containing:
  "suggested_next_steps": up to 3 short actionable suggestions,
  "references": the numbers of the workout summaries you relied on.`

// CoachStreamMessages builds the prompt for a streamed coach answer. The
// delimiter separates prose from the trailing metadata JSON.
func CoachStreamMessages(delimiter, profileContext, workoutContext, question string) []Message {
	user := fmt.Sprintf("User profile:\n%s\n\nRecent workouts:\n%s\n\nQuestion: %s",
		profileContext, workoutContext, question)
	return []Message{
		SystemMessage(fmt.Sprintf(coachStreamSystemPrompt, delimiter)),
		UserMessage(user),
	}
}

const congratulationSystemPrompt = `You are an enthusiastic fitness coach. Write one short
congratulatory sentence for a user who just unlocked an achievement tier.
Respond with the sentence only, no quotes.`

// CongratulationMessages builds the prompt for a tier-unlock message.
func CongratulationMessages(achievementName, tier string) []Message {
	return []Message{
		SystemMessage(congratulationSystemPrompt),
		UserMessage(fmt.Sprintf("Achievement: %s\nTier unlocked: %s", achievementName, tier)),
	}
}
