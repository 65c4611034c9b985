// Package domain holds the SportsCom value types shared by every layer:
// chunks of knowledge-base text, their fingerprints, scored matches, event
// labels and the replies given back to students.
//
// It imports nothing outside the standard library, and nothing in
// internal/ may be imported from here.
package domain
