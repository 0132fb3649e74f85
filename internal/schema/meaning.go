package schema

import "strings"

// abbreviations expands the short forms commonly found in column names.
var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone", "mobile": "phone",
	"pwd": "password", "passwd": "password", "pw": "password", "pass": "password",
	"mail": "email", "img": "image", "zip": "zipcode", "postal": "zipcode",
	"msg": "message", "txt": "text", "tit": "title", "subj": "subject",
	"usr": "user", "emp": "employee", "dept": "department", "cat": "category",
	"lat": "latitude", "lng": "longitude", "lon": "longitude",
	"reg": "registered", "mod": "modified", "upd": "updated", "cre": "created",
	"yn": "yesno", "is": "yesno", "flg": "flag", "stat": "status", "sts": "status",
	"ts": "timestamp", "ctry": "country",
}

// meanings maps a decoded word to the tag the row generator understands.
// Order matters: the first matching tag wins.
var meanings = []struct {
	tag   string
	words []string
}{
	{tag: "email", words: []string{"email"}},
	{tag: "password", words: []string{"password", "secret", "hash"}},
	{tag: "phone", words: []string{"phone"}},
	{tag: "zipcode", words: []string{"zipcode"}},
	{tag: "address", words: []string{"address", "street"}},
	{tag: "city", words: []string{"city"}},
	{tag: "country", words: []string{"country"}},
	{tag: "url", words: []string{"url", "website", "homepage"}},
	{tag: "ip", words: []string{"ip"}},
	{tag: "name", words: []string{"name", "first", "last", "username", "login"}},
	{tag: "title", words: []string{"title", "subject"}},
	{tag: "description", words: []string{"description", "comment", "message", "text", "content", "note"}},
	{tag: "status", words: []string{"status"}},
	{tag: "yesno", words: []string{"yesno", "flag", "active", "enabled"}},
	{tag: "year", words: []string{"year"}},
	{tag: "price", words: []string{"price", "amount", "cost"}},
	{tag: "count", words: []string{"count", "quantity"}},
	{tag: "date", words: []string{"date", "timestamp", "registered", "modified", "updated", "created"}},
}

// AnalyzeMeaning guesses what a column holds from its name. Snake case and
// camel case are both split into words and abbreviations are expanded.
// It returns "" when nothing is recognized.
func AnalyzeMeaning(colName string) string {
	words := splitWords(colName)
	for i, w := range words {
		if full, ok := abbreviations[w]; ok {
			words[i] = full
		}
	}
	for _, m := range meanings {
		for _, w := range words {
			for _, want := range m.words {
				if w == want {
					return m.tag
				}
			}
		}
	}
	return ""
}

func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
			continue
		case r >= 'A' && r <= 'Z' && i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z':
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return words
}
