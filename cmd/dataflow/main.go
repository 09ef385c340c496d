package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/client"
	"github.com/agent-connector/dataflow-go/pkg/dataflow/core"
)

// dataflow 命令行客户端
//
// 核心库的演示调用方：参数解析、打印与退出码都在这里，
// 不属于核心。配置优先级：命令行 > 环境变量(.env) > 默认值。

var (
	flagBaseURL string
	flagAPIKey  string
	flagUserID  string
	flagConfig  string

	flagAgentID string
	flagType    string
	flagStream  bool
	flagQuery   string
	flagMessage string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dataflow",
		Short: "Data Flow API client",
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "base URL of the API")
	pf.StringVar(&flagAPIKey, "api-key", "", "API key for authentication")
	pf.StringVar(&flagUserID, "user-id", "", "user ID for rate limiting")
	pf.StringVar(&flagConfig, "config", "", "path to a yaml/json config file")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			return printJSON(c.HealthCheck(cmd.Context()))
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Get service information",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			return printJSON(c.ServiceInfo(cmd.Context()))
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat request to an agent",
		RunE:  runChat,
	}
	chatCmd.Flags().StringVar(&flagAgentID, "agent-id", "", "agent ID to use")
	chatCmd.Flags().StringVar(&flagType, "type", "dify-chat", "request type: openai, dify-chat, dify-workflow, universal")
	chatCmd.Flags().BoolVar(&flagStream, "stream", false, "enable streaming mode")
	chatCmd.Flags().StringVar(&flagQuery, "query", "", "query text (for Dify)")
	chatCmd.Flags().StringVar(&flagMessage, "message", "", "message content (for OpenAI/universal)")
	_ = chatCmd.MarkFlagRequired("agent-id")

	rootCmd.AddCommand(healthCmd, infoCmd, chatCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient 按优先级装配配置并创建客户端
func newClient() (*client.Client, error) {
	cfg := dataflow.ConfigFromEnv()
	if flagConfig != "" {
		loaded, err := dataflow.LoadConfigFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagUserID != "" {
		cfg.UserID = flagUserID
	}
	return client.New(cfg)
}

func runChat(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx := cmd.Context()
	outcome, err := buildAndSend(ctx, c)
	if err != nil {
		return err
	}

	if outcome.Streaming() {
		return consumeStream(outcome.Stream)
	}
	return printJSON(outcome.Result)
}

// buildAndSend 按 --type 构建请求并发送
func buildAndSend(ctx context.Context, c *client.Client) (*core.Outcome, error) {
	mode := dataflow.ResponseModeBlocking
	if flagStream {
		mode = dataflow.ResponseModeStreaming
	}

	switch flagType {
	case "dify-chat":
		req := dataflow.NewDifyRequest(defaultQuery(), cliUser()).
			WithInput("source", "go-client").
			WithResponseMode(mode)
		return c.ChatDify(ctx, flagAgentID, req), nil

	case "dify-workflow":
		req := dataflow.NewDifyRequest(defaultQuery(), cliUser()).
			WithInput("source", "go-client").
			WithResponseMode(mode)
		return c.ChatDifyWorkflow(ctx, flagAgentID, req), nil

	case "openai":
		req := dataflow.NewOpenAIRequest(
			dataflow.NewSystemMessage("You are a helpful AI assistant."),
			dataflow.NewUserMessage(defaultMessage()),
		)
		req.MaxTokens = 500
		req.Stream = flagStream
		return c.ChatOpenAI(ctx, flagAgentID, req), nil

	case "universal":
		data := map[string]any{
			"messages": []map[string]any{
				{"role": "user", "content": defaultMessage()},
			},
			"model":  "gpt-3.5-turbo",
			"stream": flagStream,
		}
		return c.ChatUniversal(ctx, flagAgentID, dataflow.UniversalRaw(data)), nil

	default:
		return nil, fmt.Errorf("unknown request type: %s", flagType)
	}
}

// consumeStream 消费流式响应
//
// Dify 形态增量打印 answer；其他形态整块打印；
// 遇到错误信封即停（信封之后序列已终止）。
func consumeStream(stream *core.Stream) error {
	defer func() { _ = stream.Close() }()

	for {
		event, ok := stream.Next()
		if !ok {
			fmt.Println()
			return nil
		}

		if env := event.Err(); env != nil {
			fmt.Println()
			return fmt.Errorf("%s: %s", env.Error.Type, env.Error.Message)
		}

		switch {
		case event.Answer() != "":
			fmt.Print(event.Answer())
		case event.Event() == "message_end" || event.Event() == "done":
			// 终止性业务事件，无增量可打印
		default:
			if err := printJSON(event); err != nil {
				return err
			}
		}
	}
}

func defaultQuery() string {
	if flagQuery != "" {
		return flagQuery
	}
	return "Hello! This is a test message from the Go client. Can you respond?"
}

func defaultMessage() string {
	if flagMessage != "" {
		return flagMessage
	}
	return "Hello! This is a test message from the Go client. Can you respond?"
}

func cliUser() string {
	return fmt.Sprintf("go-client-%d", time.Now().Unix())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
