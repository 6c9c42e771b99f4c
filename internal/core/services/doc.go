// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The assembler applies the answer policy to retrieved evidence;
// the assistant service wires retrieval, assembly, and optional
// generative enrichment into the full answer pipeline.
package services
