package constant

// SearchItemsFn is the global function every Lua provider script must define.
const SearchItemsFn = "SearchItems"

// SourceTemplate is a Go text/template for scaffolding new Lua provider scripts.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias item { title: string, url: string, category: string|nil, cover: string|nil, year: string|nil, description: string|nil }


----- IMPORTS -----
Http = require("http")
Json = require("json")
--- END IMPORTS ---



----- VARIABLES -----
Base = "{{ .URL }}"
--- END VARIABLES ---



----- MAIN -----

--- Searches the site for items matching the query.
-- @param query string Query to search for
-- @return item[] Table of items
function {{ .SearchItemsFn }}(query)
	return {}
end

--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
