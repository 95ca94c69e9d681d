package llm

// resolveModel maps a friendly model name to a provider model ID. Names not
// in the table are passed through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// modelFor returns the model a request should use.
func modelFor(req Request, configured string, models map[string]string) string {
	if req.Model != "" {
		return resolveModel(req.Model, models)
	}
	return configured
}
