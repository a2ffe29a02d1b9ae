// Package registry provides the built-in node catalog registration.
package registry

import (
	"github.com/flowgate-io/flowgate/pkg/nodes/addtag"
	"github.com/flowgate-io/flowgate/pkg/nodes/ifelse"
	"github.com/flowgate-io/flowgate/pkg/nodes/paralleltask"
	"github.com/flowgate-io/flowgate/pkg/nodes/stopexecution"
	"github.com/flowgate-io/flowgate/pkg/nodes/webhook"
)

// Built-in trigger kinds. Blocking triggers precede a persistence decision
// and can reject it; the others fire after commit.
const (
	TriggerEventPublish       = "event-publish"
	TriggerEventBeforeSave    = "event-before-save"
	TriggerEventAfterSave     = "event-after-save"
	TriggerAttributeAfterSave = "attribute-after-save"
)

// RegisterDefaultNodes registers the built-in trigger and module catalog.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterTrigger(&Descriptor{
		ID:          TriggerEventPublish,
		Name:        "Event Publish",
		Description: "Fires before an event is published and can block the publish",
		Blocking:    true,
	})
	r.RegisterTrigger(&Descriptor{
		ID:          TriggerEventBeforeSave,
		Name:        "Event Before Save",
		Description: "Fires before an event is saved and can block the save",
		Blocking:    true,
	})
	r.RegisterTrigger(&Descriptor{
		ID:          TriggerEventAfterSave,
		Name:        "Event After Save",
		Description: "Fires after an event has been saved",
	})
	r.RegisterTrigger(&Descriptor{
		ID:          TriggerAttributeAfterSave,
		Name:        "Attribute After Save",
		Description: "Fires after an attribute has been saved",
	})

	r.RegisterModule(stopexecution.NewFactory(), Blocking())
	r.RegisterModule(webhook.NewFactory())
	r.RegisterModule(addtag.NewFactory())
	r.RegisterModule(ifelse.NewFactory())
	r.RegisterModule(paralleltask.NewFactory(), AllowsFanOut())
}
