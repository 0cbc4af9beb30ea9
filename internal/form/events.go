package form

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Element is the stable handle of a control in the host document.
type Element string

const (
	ElementIdentifier    Element = "id-input"
	ElementCheckButton   Element = "check-id-btn"
	ElementStatus        Element = "check-id-msg"
	ElementPassword      Element = "password"
	ElementPasswordCheck Element = "password-check"
	ElementName          Element = "name"
	ElementEmail         Element = "email"
	ElementTerms         Element = "terms"
	ElementSubmit        Element = "signup-btn"
)

// EventType is the kind of UI event delivered for an element.
type EventType string

const (
	EventInput  EventType = "input"
	EventChange EventType = "change"
	EventClick  EventType = "click"
)

// Event is one UI event. Value carries the element's value at the time of
// the event; for the terms checkbox it is its checked state.
type Event struct {
	Element Element
	Type    EventType
	Value   string
}

// Binding pairs an element with an event type in the registration table.
type Binding struct {
	Element Element
	Type    EventType
}

func (b Binding) String() string {
	return string(b.Element) + ":" + string(b.Type)
}

type handlerFunc func(ctx context.Context, value string) error

// registerHandlers builds the event table:
//
//	id-input        input          OnIdentifierEdited
//	check-id-btn    click          RequestIdentifierCheck (current identifier)
//	password        input, change  SetPassword
//	password-check  input, change  SetPasswordConfirmation
//	name            input, change  SetDisplayName
//	email           input, change  SetEmail
//	terms           input, change  SetTermsAccepted
func (c *Controller) registerHandlers() {
	c.handlers = make(map[Binding]handlerFunc)

	c.register(ElementIdentifier, func(_ context.Context, value string) error {
		c.OnIdentifierEdited(value)
		return nil
	}, EventInput)

	c.register(ElementCheckButton, func(ctx context.Context, _ string) error {
		_, err := c.RequestIdentifierCheck(ctx, c.State().Identifier)
		return err
	}, EventClick)

	c.register(ElementPassword, textHandler(c.SetPassword), EventInput, EventChange)
	c.register(ElementPasswordCheck, textHandler(c.SetPasswordConfirmation), EventInput, EventChange)
	c.register(ElementName, textHandler(c.SetDisplayName), EventInput, EventChange)
	c.register(ElementEmail, textHandler(c.SetEmail), EventInput, EventChange)

	c.register(ElementTerms, func(_ context.Context, value string) error {
		checked, err := parseChecked(value)
		if err != nil {
			return err
		}
		c.SetTermsAccepted(checked)
		return nil
	}, EventInput, EventChange)

	for _, b := range c.Bindings() {
		c.logger.Debug("Registered form handler", "binding", b.String())
	}
}

func (c *Controller) register(element Element, handler handlerFunc, events ...EventType) {
	for _, event := range events {
		c.handlers[Binding{Element: element, Type: event}] = handler
	}
}

// Dispatch routes an event to its registered handler.
func (c *Controller) Dispatch(ctx context.Context, event Event) error {
	handler, ok := c.handlers[Binding{Element: event.Element, Type: event.Type}]
	if !ok {
		return fmt.Errorf("%w: %s:%s", ErrNoHandler, event.Element, event.Type)
	}
	return handler(ctx, event.Value)
}

// Bindings lists the registration table in a stable order.
func (c *Controller) Bindings() []Binding {
	bindings := make([]Binding, 0, len(c.handlers))
	for b := range c.handlers {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].String() < bindings[j].String()
	})
	return bindings
}

func textHandler(set func(string)) handlerFunc {
	return func(_ context.Context, value string) error {
		set(value)
		return nil
	}
}

// parseChecked accepts the browser's "on" as well as strconv booleans.
func parseChecked(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "", "off":
		return false, nil
	}
	checked, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid checkbox value %q: %w", value, err)
	}
	return checked, nil
}
