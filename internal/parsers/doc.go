// Package parsers provides implementations of the AnnotationParser interface
// for the supported annotation formats. Each parser turns one file format
// into annotations with coordinates normalised to [0,1].
//
// Parsers are registered with the ParserRegistry at startup.
package parsers
