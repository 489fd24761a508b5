package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/evilsocket/islazy/log"
	"github.com/evilsocket/islazy/tui"

	"github.com/namepage/namepage/models"
)

func showInbox(name string, list []models.Message) {
	if len(list) == 0 {
		fmt.Println()
		fmt.Println(tui.Dim(fmt.Sprintf("No messages for %s.", name)))
		fmt.Println()
		return
	}

	columns := []string{
		"ID",
		"Date",
		"Sender",
		"Verified",
		"Message",
	}
	rows := [][]string{}
	for _, msg := range list {
		row := []string{
			fmt.Sprintf("%d", msg.ID),
			msg.CreatedAt.Format("02 January 2006, 3:04 PM"),
			msg.Sender,
			fmt.Sprintf("%v", msg.Verified),
			msg.Body,
		}

		if msg.Verified {
			for i := range row {
				row[i] = tui.Green(row[i])
			}
		}

		rows = append(rows, row)
	}

	fmt.Println()
	tui.Table(os.Stdout, columns, rows)
	fmt.Println()
	fmt.Printf("%d messages for %s\n\n", len(list), name)
}

func sendMessage() {
	body := message
	if body == "" {
		log.Fatal("-message can not be empty")
	} else if body[0] == '@' {
		log.Info("reading %s ...", body[1:])
		raw, err := ioutil.ReadFile(body[1:])
		if err != nil {
			log.Fatal("error reading %s: %v", body[1:], err)
		}
		body = string(raw)
	}

	result, err := client.SendMessage(receiver, body)
	if err != nil {
		log.Fatal("%v", err)
	} else if result.Verified {
		log.Info("message %d: %s", result.MessageID, result.Message)
	} else {
		log.Warning("message %d: %s", result.MessageID, result.Message)
	}
}

func clientMain() {
	if receiver != "" {
		sendMessage()
	}

	if inboxOf != "" {
		log.Info("fetching messages of %s ...", inboxOf)
		if list, err := client.Messages(inboxOf); err != nil {
			log.Fatal("%v", err)
		} else {
			showInbox(inboxOf, list)
		}
	}

	if ownerOf != "" {
		own, err := client.Ownership(ownerOf)
		if err != nil {
			log.Fatal("%v", err)
		} else if own.OwnerAddress == nil {
			log.Info("%s has no registered owner", own.Domain)
		} else {
			log.Info("%s is owned by %s (source:%s)", own.Domain, *own.OwnerAddress, own.Source)
		}
	}

	if receiver == "" && inboxOf == "" && ownerOf == "" && keys != nil {
		log.Info("loaded key for %s, nothing else to do", keys.Address)
	}
}
