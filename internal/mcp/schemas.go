package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// symbolKinds are the values accepted by kind filters
var symbolKinds = []string{"class", "interface", "trait", "function", "method", "constant"}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func nameProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// indexCodebaseTool returns the tool definition for index_codebase
func indexCodebaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_codebase",
		Description: "Analyze a PHP codebase so its classes, functions and constants can be queried",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty("Absolute path to the PHP project root"),
				"store_token_streams": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, keep token streams so unchanged files are not tokenized again",
				},
				"include_vendor": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index vendor/ directory",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// getClassTool returns the tool definition for get_class
func getClassTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_class",
		Description: "Reflect a class, interface or trait by fully qualified name. Unknown names resolve to runtime classes or placeholders.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty(`Fully qualified class name (e.g. App\Model\User)`),
				"include_source": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the declaration source text",
					"default":     false,
				},
			},
			Required: []string{"name"},
		},
	}
}

// getFunctionTool returns the tool definition for get_function
func getFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_function",
		Description: "Reflect a function by fully qualified name, falling back to runtime functions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty(`Fully qualified function name (e.g. App\helper or strlen)`),
				"include_source": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the declaration source text",
					"default":     false,
				},
			},
			Required: []string{"name"},
		},
	}
}

// getConstantTool returns the tool definition for get_constant
func getConstantTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_constant",
		Description: "Reflect a constant by fully qualified name or Class::NAME, falling back to runtime constants",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty(`Constant name (e.g. App\VERSION, App\Model\User::TABLE or PHP_EOL)`),
			},
			Required: []string{"name"},
		},
	}
}

// listNamespacesTool returns the tool definition for list_namespaces
func listNamespacesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_namespaces",
		Description: "List the namespaces of the analyzed codebase with symbol counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listClassesTool returns the tool definition for list_classes
func listClassesTool() mcp.Tool {
	partition := func(description string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "boolean",
			"description": description,
		}
	}
	return mcp.Tool{
		Name:        "list_classes",
		Description: "List classes by partition. With no partition selected all partitions are listed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tokenized":   partition("Include classes declared in analyzed source"),
				"internal":    partition("Include runtime classes referenced as ancestors or interfaces"),
				"nonexistent": partition("Include referenced classes that are declared nowhere"),
			},
		},
	}
}

// searchSymbolsTool returns the tool definition for search_symbols
func searchSymbolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_symbols",
		Description: "Search indexed symbols by name and doc comment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty("Absolute path to indexed PHP project"),
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (names, namespace fragments or doc comment words)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Filter by symbol kind",
					"items": map[string]interface{}{
						"type": "string",
						"enum": symbolKinds,
					},
				},
				"search_mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: hybrid (name + keyword), name (FQN matching only), or keyword (BM25 only)",
					"enum":        []string{"hybrid", "name", "keyword"},
					"default":     "hybrid",
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a PHP project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty("Absolute path to PHP project"),
			},
			Required: []string{"path"},
		},
	}
}
