// Package schemas embeds the JSON Schema documents shipped with the tool.
package schemas

import _ "embed"

// AgentSpecV1Schema is the JSON Schema for the agent specification returned
// by DESCRIBE AGENT.
//
//go:embed agent_spec_v1.json
var AgentSpecV1Schema []byte
