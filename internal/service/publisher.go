package service

// Event names pushed to the customer display
const (
	EventCartUpdated     = "cart.updated"
	EventSaleCompleted   = "sale.completed"
	EventReturnCompleted = "return.completed"
)

// Publisher pushes an event to every display attached to a session
type Publisher interface {
	Publish(sessionID, event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{}) {}

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
