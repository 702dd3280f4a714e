package server

// Message is sent by the browser.
type Message struct {
	// Type is "event".
	Type string `json:"type"`

	// Path addresses the target node: child indexes from the document.
	Path []int `json:"path"`

	// Event is the DOM event type, e.g. "input" or "click".
	Event string `json:"event"`

	// Value is the target's form value, when it has one.
	Value string `json:"value,omitempty"`
}

// Reply is sent to the browser.
type Reply struct {
	// Type is "render" or "error".
	Type string `json:"type"`

	// Path addresses the host node for render replies.
	Path []int `json:"path,omitempty"`

	// HTML is the host's inner markup for render replies.
	HTML string `json:"html,omitempty"`

	// Focus is set only on the render reply to the client that sent the
	// event: the path of the event target, which the client focuses again
	// after swapping the markup.
	Focus []int `json:"focus,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
