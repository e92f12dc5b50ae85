package cache

import "html/template"

var syntaxCache = NewCache[string, template.CSS]()

var staticCache = NewCache[string, string]()

func SyntaxCSS(theme string, generate func() template.CSS) template.CSS {
	return syntaxCache.GetOrCompute(theme, generate)
}

func ClearSyntaxCSS() {
	syntaxCache.Clear()
}

func GetStaticHash(path string) (string, bool) {
	return staticCache.Get(path)
}

func SetStaticHash(path, hash string) {
	staticCache.Set(path, hash)
}
