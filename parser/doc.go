// Package parser pulls structured content out of model replies.
//
// Models asked for JSON often wrap it in a fenced block or surround it
// with prose. DecodeJSON finds the document wherever it sits and decodes it:
//
//	var score struct {
//	    Score  int    `json:"score"`
//	    Reason string `json:"reason"`
//	}
//	if err := parser.DecodeJSON(reply, &score); err != nil {
//	    // errors.Is(err, parser.ErrNoJSON) when nothing decodable was found
//	}
//
// Free-text replies such as campaign ideas or meeting briefs can be split
// with List, NumberedList, and Section.
package parser
