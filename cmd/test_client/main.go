package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP stream endpoint")
	location := flag.String("location", "Manchester", "location to search around")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "company-hunter-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testJobFilters(ctx, session)
	testJobSearch(ctx, session, *location)
	testSavedCompanies(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, t := range res.Tools {
		fmt.Printf("  %s: %s\n", t.Name, t.Description)
	}
}

func testJobFilters(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: job_filters")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_filters",
		Arguments: map[string]any{},
	})
	if err != nil {
		log.Printf("job_filters failed: %v", err)
		return
	}

	printResult(result)
	fmt.Println("job_filters passed")
}

func testJobSearch(ctx context.Context, session *mcp.ClientSession, location string) {
	fmt.Println("\nTEST: job_search")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "job_search",
		Arguments: map[string]any{
			"location":   location,
			"radius_km":  10,
			"categories": []string{"IT Jobs"},
			"limit":      5,
		},
	})
	if err != nil {
		log.Printf("job_search failed: %v", err)
		return
	}
	printResult(result)

	// an unknown place must come back as a tool error, not a transport error
	fmt.Println("\n  job_search with an unresolvable location")
	bad, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"location": "Qwxyzzy Nowhere 00000"},
	})
	if err != nil {
		log.Printf("job_search (bad location) failed: %v", err)
		return
	}
	printResult(bad)
	fmt.Println("job_search passed")
}

func testSavedCompanies(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: save_company / saved_companies / delete_company")

	saved, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "save_company",
		Arguments: map[string]any{
			"name":  "Test Client Ltd",
			"notes": "created by test client",
		},
	})
	if err != nil {
		log.Printf("save_company failed: %v", err)
		return
	}
	printResult(saved)

	listed, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "saved_companies",
		Arguments: map[string]any{"limit": 5},
	})
	if err != nil {
		log.Printf("saved_companies failed: %v", err)
		return
	}
	printResult(listed)

	id, ok := structuredID(saved)
	if !ok {
		log.Printf("save_company returned no id, skipping delete")
		return
	}
	deleted, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "delete_company",
		Arguments: map[string]any{"id": id},
	})
	if err != nil {
		log.Printf("delete_company failed: %v", err)
		return
	}
	printResult(deleted)
	fmt.Println("saved companies passed")
}

func structuredID(res *mcp.CallToolResult) (string, bool) {
	m, ok := res.StructuredContent.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["id"].(string)
	return id, ok && id != ""
}

func printResult(res *mcp.CallToolResult) {
	if res.IsError {
		fmt.Print("  (tool error) ")
	}
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
