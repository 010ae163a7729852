package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ecank/nebula/internal/studio/models"
)

// ShowSettings prints the current settings with secrets masked.
func (a *App) ShowSettings(ctx context.Context) error {
	s := a.session.Settings()
	fmt.Printf("Theme:        %s\n", s.Theme)
	fmt.Printf("Language:     %s\n", s.Language)
	fmt.Printf("Quota:        %d/%d\n", s.QuotaUsed, s.QuotaLimit)
	fmt.Printf("Record store: %s (table %s)\n", orUnset(s.Cloud.RecordStoreURL), orUnset(s.Cloud.RecordStoreTableID))
	fmt.Printf("Object store: %s (bucket %s)\n", orUnset(s.Cloud.ObjectStoreEndpoint), orUnset(s.Cloud.ObjectStoreBucket))
	fmt.Printf("Toolkit:      %s\n", orUnset(s.Cloud.ToolkitURL))
	fmt.Printf("Tokens:       record %s, object %s, toolkit %s\n",
		mask(s.Cloud.RecordStoreToken), mask(s.Cloud.ObjectStoreAccessKey), mask(s.Cloud.ToolkitKey))
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "****"
}

// Configure interactively edits the cloud connection settings. Empty input
// keeps the current value; connection changes rebuild the cloud adapters.
func (a *App) Configure(ctx context.Context) error {
	current := a.session.Settings().Cloud

	patch := models.CloudConfigPatch{}
	fields := []struct {
		prompt  string
		current string
		target  **string
	}{
		{"Record store URL", current.RecordStoreURL, &patch.RecordStoreURL},
		{"Record store token", mask(current.RecordStoreToken), &patch.RecordStoreToken},
		{"Record store table id", current.RecordStoreTableID, &patch.RecordStoreTableID},
		{"Object store endpoint", current.ObjectStoreEndpoint, &patch.ObjectStoreEndpoint},
		{"Object store access key", mask(current.ObjectStoreAccessKey), &patch.ObjectStoreAccessKey},
		{"Object store secret key", mask(current.ObjectStoreSecretKey), &patch.ObjectStoreSecretKey},
		{"Object store bucket", current.ObjectStoreBucket, &patch.ObjectStoreBucket},
		{"Toolkit URL", current.ToolkitURL, &patch.ToolkitURL},
		{"Toolkit key", mask(current.ToolkitKey), &patch.ToolkitKey},
	}

	for _, f := range fields {
		value, err := getSimpleText(a.reader,
			fmt.Sprintf("%s [%s]", f.prompt, orUnset(f.current)), os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			v := value
			*f.target = &v
		}
	}

	if _, err := a.session.UpdateSettings(ctx, models.SettingsPatch{Cloud: &patch}); err != nil {
		log.Printf("Failed to save settings: %s", err.Error())
		return err
	}
	fmt.Println("Settings saved")
	return nil
}

// Actors lists, adds or removes voice presets.
func (a *App) Actors(ctx context.Context) error {
	action, err := getSimpleText(a.reader, "Action (list/add/rm)", os.Stdout)
	if err != nil {
		return err
	}

	switch action {
	case "", "list":
		actors, err := a.session.Actors(ctx)
		if err != nil {
			log.Printf("Failed to load actors: %s", err.Error())
			return err
		}
		if len(actors) == 0 {
			fmt.Println("No actors")
			return nil
		}
		for _, actor := range actors {
			fmt.Printf("%s  %-20s  voice: %s\n", actor.ID, actor.Name, actor.VoiceID)
		}
		return nil

	case "add":
		name, err := getSimpleText(a.reader, "Actor name", os.Stdout)
		if err != nil {
			return err
		}
		voiceID, err := getSimpleText(a.reader, "Provider voice id", os.Stdout)
		if err != nil {
			return err
		}
		actor, err := a.session.SaveActor(ctx, models.Actor{Name: name, VoiceID: voiceID})
		if err != nil {
			log.Printf("Failed to save actor: %s", err.Error())
			return err
		}
		fmt.Printf("Saved actor %s\n", actor.ID)
		return nil

	case "rm":
		id, err := getSimpleText(a.reader, "Actor id", os.Stdout)
		if err != nil {
			return err
		}
		if err := a.session.DeleteActor(ctx, id); err != nil {
			log.Printf("Failed to delete actor: %s", err.Error())
			return err
		}
		fmt.Println("Deleted")
		return nil

	default:
		fmt.Println("Unknown action:", action)
		return nil
	}
}

// Logs prints the audit log, newest first.
func (a *App) Logs(ctx context.Context) error {
	entries := a.engine.Logs()
	if len(entries) == 0 {
		fmt.Println("No log entries")
		return nil
	}
	for _, e := range entries {
		ts := time.UnixMilli(e.Timestamp).Format(time.RFC3339)
		fmt.Printf("%s  %-10s  %-7s  %4dms  %s\n", ts, e.Tool, e.Status, e.LatencyMs, e.Details)
	}
	return nil
}
