// Package mediakind classifies media files into image, video, audio, or
// unknown.
//
// Classification prefers probe-reported stream presence over the file
// extension; the extension tables exist only as a fallback for files the
// probe could not read.
package mediakind
