package prompt

import "fmt"

// Fixed lines returned to the caller outside of model generation.
const (
	MsgNameRequired     = "Please provide a customer name to look up."
	MsgLookupDataError  = "Error: Loan data not loaded on the server. Cannot look up customer."
	MsgChatDataError    = "Error: Loan data not loaded on the server."
	MsgSessionLost      = "It seems like the session state was lost. My apologies. Please try finding the customer by name again."
	MsgStaleCustomer    = "Error retrieving customer data. Please try finding the customer again."
	MsgEmptyInput       = "I didn't quite catch that. Can you please say that again clearly?"
	MsgAIUnavailable    = "The AI system is currently unavailable. Please try again later."
	MsgEmptyGeneration  = "I'm sorry, I couldn't generate a clear response for that. Could you please try rephrasing, focusing on your loan resolution?"
	genericOverdueTopic = "your overdue loan balance"
)

// CustomerFound acknowledges a successful lookup.
func CustomerFound(name string) string {
	return fmt.Sprintf("Thank you, I've located the loan file for %s. Please click 'Start Talking (Voice)' when you're ready to connect with the Apex representative.", name)
}

// CustomerNotFound echoes the requested name back.
func CustomerNotFound(requested string) string {
	return fmt.Sprintf("I couldn't find loan details for a customer named %s. Please confirm the name or provide the Loan ID.", requested)
}

// Blocked is the reply used when the model refused on content-policy grounds.
func Blocked(reason string) string {
	return fmt.Sprintf("I'm sorry, I cannot respond to that query based on my guidelines (Blocked: %s). Let's focus back on resolving your loan account.", reason)
}

// Fallback keeps the call going after a failed generation. When amount is
// nil the overdue balance is mentioned generically.
func Fallback(amount *float64) string {
	topic := genericOverdueTopic
	if amount != nil {
		topic = Currency(*amount)
	}
	return fmt.Sprintf("My apologies, I'm experiencing some technical difficulty right now and couldn't fully process that request. But while I have you, I still need to discuss resolving %s. Could we focus on finding a manageable payment option or setting up a plan for that today?", topic)
}
