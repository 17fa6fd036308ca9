// Package openai transcribes audio with the hosted OpenAI audio API.
//
// Requests use the verbose JSON format with segment and word timestamp
// granularities; returned words are attached to the segment whose time range
// contains them.
package openai
