package funcs

import "github.com/roach88/bqchain/internal/expr"

var (
	symJSONExtract       = expr.Sym(NsJSON, "Extract")
	symJSONExtractScalar = expr.Sym(NsJSON, "ExtractScalar")

	symURLHost   = expr.Sym(NsURL, "Host")
	symURLDomain = expr.Sym(NsURL, "Domain")
	symURLTLD    = expr.Sym(NsURL, "TLD")

	symFormatIP       = expr.Sym(NsIP, "FormatIP")
	symParseIP        = expr.Sym(NsIP, "ParseIP")
	symFormatPackedIP = expr.Sym(NsIP, "FormatPackedIP")
	symParsePackedIP  = expr.Sym(NsIP, "ParsePackedIP")

	symHash     = expr.Sym(NsOther, "Hash")
	symPosition = expr.Sym(NsOther, "Position")
)

func miscEntries() []Entry {
	return []Entry{
		fn(symJSONExtract, "JSON_EXTRACT", 2, 2),
		fn(symJSONExtractScalar, "JSON_EXTRACT_SCALAR", 2, 2),
		fn(symURLHost, "HOST", 1, 1),
		fn(symURLDomain, "DOMAIN", 1, 1),
		fn(symURLTLD, "TLD", 1, 1),
		fn(symFormatIP, "FORMAT_IP", 1, 1),
		fn(symParseIP, "PARSE_IP", 1, 1),
		fn(symFormatPackedIP, "FORMAT_PACKED_IP", 1, 1),
		fn(symParsePackedIP, "PARSE_PACKED_IP", 1, 1),
		fn(symHash, "HASH", 1, 1),
		fn(symPosition, "POSITION", 1, 1),
	}
}

func JSONExtract(doc, path expr.Expr) *expr.Call       { return expr.CallFunc(symJSONExtract, doc, path) }
func JSONExtractScalar(doc, path expr.Expr) *expr.Call { return expr.CallFunc(symJSONExtractScalar, doc, path) }
func Host(url expr.Expr) *expr.Call                    { return expr.CallFunc(symURLHost, url) }
func Domain(url expr.Expr) *expr.Call                  { return expr.CallFunc(symURLDomain, url) }
func TLD(url expr.Expr) *expr.Call                     { return expr.CallFunc(symURLTLD, url) }
func FormatIP(ip expr.Expr) *expr.Call                 { return expr.CallFunc(symFormatIP, ip) }
func ParseIP(ip expr.Expr) *expr.Call                  { return expr.CallFunc(symParseIP, ip) }
func FormatPackedIP(ip expr.Expr) *expr.Call           { return expr.CallFunc(symFormatPackedIP, ip) }
func ParsePackedIP(ip expr.Expr) *expr.Call            { return expr.CallFunc(symParsePackedIP, ip) }
func Hash(x expr.Expr) *expr.Call                      { return expr.CallFunc(symHash, x) }

// Position returns the ordinal of a repeated field's value.
func Position(x expr.Expr) *expr.Call { return expr.CallFunc(symPosition, x) }
