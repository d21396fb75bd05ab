package adapter

import "strings"

// envKeyReplacer maps nested keys to env names: api.base_url -> BRICKWORK_API_BASE_URL
var envKeyReplacer = strings.NewReplacer(".", "_")
