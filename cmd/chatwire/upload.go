package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/chatwire"
)

// uploadCmd uploads a file as an attachment.
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file as an attachment",
	Long: `Upload a local file as an attachment. The backend processes uploads
asynchronously; use "chatwire attachments" to check processing status.

Examples:
  chatwire upload report.pdf
  chatwire upload notes.txt --description "meeting notes" --tags work,q3`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

// attachmentsCmd lists the caller's attachments.
var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "List your attachments",
	RunE:  runAttachments,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(attachmentsCmd)

	uploadCmd.Flags().String("description", "", "attachment description")
	uploadCmd.Flags().String("tags", "", "comma-separated tags")

	attachmentsCmd.Flags().String("search", "", "filter by filename or description")
	attachmentsCmd.Flags().Int("limit", 50, "maximum number of attachments to list")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	description, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetString("tags")

	attachment, err := client.UploadAttachment(cmd.Context(), chatwire.UploadParams{
		Filename:    filepath.Base(args[0]),
		Content:     f,
		Description: description,
		Tags:        tags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("uploaded attachment %d (%s, %d bytes), recognition %s\n",
		attachment.ID, attachment.Filename, attachment.FileSize, attachment.RecognitionStatus)
	return nil
}

func runAttachments(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	list, err := client.ListAttachments(cmd.Context(), chatwire.AttachmentListParams{
		Search: search,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	if len(list.Items) == 0 {
		fmt.Println("no attachments")
		return nil
	}
	for _, a := range list.Items {
		fmt.Printf("%-6d %-12s %10d  %s\n", a.ID, a.RecognitionStatus, a.FileSize, a.Filename)
	}
	fmt.Printf("%d of %d attachments\n", len(list.Items), list.Total)
	return nil
}
