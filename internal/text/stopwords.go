package text

// Stop words for keyword extraction. The Chinese list skews toward
// conversational filler because the corpus is companion chat.
var stopWords = map[string]struct{}{
	// English
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "my": {}, "your": {}, "his": {}, "her": {}, "its": {}, "our": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"what": {}, "which": {}, "who": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "for": {}, "with": {},
	"not": {}, "no": {}, "so": {}, "very": {}, "just": {}, "really": {},

	// Chinese
	"我": {}, "你": {}, "他": {}, "她": {}, "它": {}, "我们": {}, "你们": {}, "他们": {},
	"的": {}, "了": {}, "着": {}, "过": {}, "是": {}, "在": {}, "有": {}, "和": {},
	"吗": {}, "呢": {}, "吧": {}, "啊": {}, "呀": {}, "哦": {}, "嗯": {},
	"什么": {}, "怎么": {}, "为什么": {}, "哪里": {}, "哪个": {}, "谁": {},
	"这": {}, "那": {}, "这个": {}, "那个": {}, "这些": {}, "那些": {},
	"一个": {}, "就": {}, "都": {}, "也": {}, "很": {}, "太": {}, "还": {},
	"要": {}, "会": {}, "能": {}, "可以": {}, "不": {}, "没": {}, "没有": {},
}

// IsStopWord reports whether tok is on the fixed stop-word list.
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}
