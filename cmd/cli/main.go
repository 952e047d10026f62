package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"crm-assistant/internal/agent"
	"crm-assistant/internal/app"
	"crm-assistant/internal/runtime/session"
	"crm-assistant/internal/tool/crmtools"
	"crm-assistant/internal/tool/registry"
	"crm-assistant/pkg/auth"
	"crm-assistant/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	switch os.Args[1] {
	case "version":
		fmt.Println("crm-assistant cli 0.1.0")
	case "config":
		runConfig()
	case "chat":
		runChat()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: crmctl <command>")
	fmt.Println("Commands:")
	fmt.Println("  version   打印版本")
	fmt.Println("  config    校验并打印当前配置")
	fmt.Println("  chat      登录 CRM 并进入交互式对话（CRM_EMAIL / CRM_PASSWORD 环境变量提供凭证）")
}

func runConfig() {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("api.port: %d\n", cfg.API.Port)
	fmt.Printf("crm.base_url: %s\n", cfg.CRM.BaseURL)
	fmt.Printf("agent.max_rounds: %d\n", cfg.Agent.MaxRounds)
	fmt.Printf("model.defaults: %s / %s\n", cfg.Model.Defaults.Provider, cfg.Model.Defaults.LLM)
}

func runChat() {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	bootstrap, err := app.NewBootstrap(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	email := os.Getenv("CRM_EMAIL")
	password := os.Getenv("CRM_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "请设置 CRM_EMAIL 与 CRM_PASSWORD 环境变量")
		os.Exit(1)
	}

	ctx := context.Background()
	login, err := bootstrap.CRMClient.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "登录失败: %v\n", err)
		os.Exit(1)
	}
	ctx = auth.WithToken(ctx, login.AccessToken)
	ctx = auth.WithOperator(ctx, auth.Operator{
		EmployeeID:  login.EmpID,
		Name:        login.EmpName,
		AccessLevel: login.Access,
	})
	fmt.Printf("已登录: %s (access: %s)\n", login.EmpName, login.Access)

	llmClient, err := app.NewLLMClientFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 LLM 客户端失败: %v\n", err)
		os.Exit(1)
	}
	wrapClient := app.NewLLMClientWrapper(cfg)
	if wrapClient != nil {
		llmClient = wrapClient(llmClient)
	}

	toolReg := registry.New()
	crmtools.RegisterAll(toolReg, bootstrap.CRMClient)
	sessions := session.NewManager(session.NewMemoryStore(), bootstrap.CRMClient)
	assistant := agent.New(llmClient, toolReg, sessions, bootstrap.Logger, agent.Config{
		SystemPrompt: cfg.Agent.SystemPrompt,
		MaxRounds:    cfg.Agent.MaxRounds,
		WrapClient:   wrapClient,
	})

	sess, err := sessions.Create(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建会话失败: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			break
		}
		reply, err := assistant.HandleTurn(ctx, sess, msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "(后端错误: %v)\n", err)
		}
		fmt.Println(reply)
	}
}
