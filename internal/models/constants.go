package models

const (
	RowPrefixFormat  = "Row %d: "
	ClauseFormat     = "%s is %s"
	ClauseSeparator  = ", "
	ContextSeparator = "\n"
	DefaultTopK      = 5
)

var (
	PromptTemplate = `You are an AI assistant. Use the following context to answer the user's query.

Context:
%s

Question: %s
Answer:`
)
