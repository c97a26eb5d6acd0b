/*
Package types defines the data shapes shared across sihui.

# Wire Envelope

Every Sihui endpoint answers with the same wrapper:

	{"success": true, "data": {...}, "message": "ok", "code": "OK"}

Envelope[T] models it. Unwrap returns the payload, or an *EnvelopeError when
success is false; the payload of a failed envelope is never returned.

# Pagination

List endpoints put a Page[T] inside the envelope:

	{"content": [...], "totalElements": 47, "totalPages": 5,
	 "size": 10, "number": 0, "first": true, "last": false}

Page numbers are zero based. Validate checks the first/last flags and that
content does not exceed size.

# Domain Types

The remaining types mirror the backend DTOs: accounts and roles, auth
responses, questionnaires, AI chat and knowledge documents, content files and
monitoring reports. Optional fields use omitempty; update payloads use
pointers so unset fields are not sent.

# Exchanges

Exchange and HistoryEntry describe the client's own traffic and feed the
local request log and analytics.
*/
package types
