package dev

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var debugSet = os.Getenv("TOPIX_DEBUG")
var debugPath = os.Getenv("TOPIX_DEBUG_PATH")

func Debug(msg string) {
	if debugPath == "" {
		debugPath = "topix.log"
	}
	if debugSet != "" {
		file, err := os.OpenFile(debugPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		logger := log.New(file, "", log.Ldate|log.Lmicroseconds)
		logger.Printf("%q", msg)
	}
}

func DebugUpdateMsg(component string, msg tea.Msg) {
	switch msg.(type) {
	case cursor.BlinkMsg, spinner.TickMsg:
	// skip messages that are too frequent to be useful in the log
	default:
		Debug("--")
		Debug(fmt.Sprintf("Update %s: %T", component, msg))
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			Debug(fmt.Sprintf("  Key: '%v'", keyMsg.String()))
		}
	}
}
