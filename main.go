package main

import (
	"context"
	"log"
)

// A small parameter set exercising the scripting driver end to end.
const demoSource = `
(knob :type "Double" :name "size" :label "Size" :dims 2 :default 3.0
      :hint "Blur radius in pixels")
(set-range "size" :min 0.0 :max 100.0)
(set-range "size" :min 0.0 :max 100.0 :dim 1)
(knob :type "ComboBox" :name "filter")
(populate "filter" (list "box" "triangle" "gaussian"))
(set-value "filter" 2)
(knob :type "Double" :name "mix" :default 1.0)
(set-key "mix" :time 0 :value 0.0)
(set-key "mix" :time 10 :value 1.0)
`

func main() {
	app := NewApp()
	app.startup(context.Background())

	result := app.Evaluate(demoSource)
	for _, e := range result.Errors {
		log.Fatalf("eval error: %s", e.Message)
	}

	for _, ks := range result.Knobs {
		log.Printf("knob %-8s type=%-8s dims=%d animated=%v", ks.Name, ks.Type, ks.Dimension, ks.Animated)
	}
	log.Printf("content hash: %s", result.ContentHash)

	payloads, err := app.SaveProject()
	if err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("saved %d knob payloads", len(payloads))
}
