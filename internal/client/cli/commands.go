package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/imarqd/internal/client/export"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/services"
	"github.com/dmitrijs2005/imarqd/internal/common"
)

const defaultHistoryLimit = 10

// readImageFile is a test seam for loading the user's image.
var readImageFile = func(path string) (models.ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.ImageFile{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func (a *App) pickImage(args []string) (models.ImageFile, error) {
	path, err := a.argOrPrompt(args, "Enter image path")
	if err != nil {
		return models.ImageFile{}, err
	}
	if path == "" {
		return models.ImageFile{}, errors.New("please choose an image")
	}
	return readImageFile(path)
}

// Protect watermarks an image and keeps the result for download.
func (a *App) Protect(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	file, err := a.pickImage(args)
	if err != nil {
		return err
	}

	a.toast.Show(ToastInfo, "Uploading "+file.Name+"...", 0)
	out, err := a.watermarkService.Protect(ctx, a.session, file)
	if err != nil {
		return err
	}

	a.lastProtected = out
	a.toast.Show(ToastSuccess, fmt.Sprintf("Protected %s (media ID %s). Type 'download' to save %s.",
		file.Name, out.MediaID, out.Filename), successTTL)
	return nil
}

// Verify checks an image against the account's media IDs.
func (a *App) Verify(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	file, err := a.pickImage(args)
	if err != nil {
		return err
	}

	a.toast.Show(ToastInfo, "Checking "+file.Name+"...", 0)
	v, err := a.verifyService.Verify(ctx, a.session, file)
	if err != nil {
		return err
	}

	if v.Matched {
		a.toast.Show(ToastSuccess, fmt.Sprintf("Match: media ID %s (similarity %.3f)", v.MediaID, v.Similarity), successTTL)
		return nil
	}
	a.toast.Show(ToastError, fmt.Sprintf("This image is not watermarked or not owned by you (%d media IDs checked).", v.Checked), 0)
	return nil
}

// Monitor scans a Twitter handle for images carrying the account's marks.
func (a *App) Monitor(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	handle, err := a.argOrPrompt(args, "Enter Twitter handle")
	if err != nil {
		return err
	}

	a.toast.Show(ToastInfo, "Scanning @"+services.NormalizeHandle(handle)+"...", 0)
	rep, err := a.monitorService.Scan(ctx, a.session, handle)
	if errors.Is(err, common.ErrNoImagesFound) {
		a.toast.Show(ToastInfo, "No images found", infoTTL)
		return nil
	}
	if err != nil {
		return err
	}

	if !rep.Found {
		a.toast.Show(ToastInfo, fmt.Sprintf("No misuse found (%d images checked)", rep.Candidates), infoTTL)
		return nil
	}

	a.toast.Show(ToastSuccess, "Possible misuse found", successTTL)
	fmt.Fprintf(a.out, "  Tweet:      %s\n", rep.TweetURL)
	fmt.Fprintf(a.out, "  Author:     @%s\n", rep.Author)
	fmt.Fprintf(a.out, "  Image:      %s\n", rep.ImageURL)
	fmt.Fprintf(a.out, "  Media ID:   %s\n", rep.MediaID)
	fmt.Fprintf(a.out, "  Similarity: %.3f\n", rep.Similarity)
	return nil
}

// Download saves the last protected image, to dir when given or to the
// configured sink.
func (a *App) Download(ctx context.Context, args []string) error {
	img := a.lastProtected
	if img == nil {
		return common.ErrNothingToSave
	}

	sink := a.sink
	if len(args) > 0 {
		sink = export.NewLocalSink(args[0])
	}

	loc, err := sink.Save(ctx, img.Filename, img.Data)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	a.toast.Show(ToastSuccess, "Saved "+loc, successTTL)
	return nil
}

// History lists images protected from this machine.
func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid limit %q", args[0])
		}
		limit = n
	}

	recs, err := a.watermarkService.History(ctx, a.session, limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No protected images yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tMEDIA ID\tLABEL\tFILE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.MediaID, r.Label, r.Filename)
	}
	return tw.Flush()
}

func (a *App) Status(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Logged in as: %s\n", a.session.Email)
		fmt.Fprintf(a.out, "API base:     %s\n", common.ResolveAPIBase(a.session.APIBase, a.config.APIBase))
	} else {
		fmt.Fprintln(a.out, "Not logged in")
		fmt.Fprintf(a.out, "API base:     %s\n", common.ResolveAPIBase("", a.config.APIBase))
	}
	fmt.Fprintf(a.out, "Panel:        %s\n", a.ActivePanel())
	switch {
	case a.lastProtected != nil:
		fmt.Fprintf(a.out, "Last image:   %s (%s)\n", a.lastProtected.Filename, a.lastProtected.MediaID)
	case a.isLoggedIn():
		rec, err := a.watermarkService.Last(ctx, a.session)
		if err != nil {
			a.logger.Warn(ctx, "last protected image lookup failed", "error", err)
		} else if rec != nil {
			fmt.Fprintf(a.out, "Last image:   %s (%s), protected %s\n",
				rec.Filename, rec.MediaID, rec.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	if kind, text, ok := a.toast.Current(); ok {
		fmt.Fprintf(a.out, "Message:      [%s] %s\n", kind, text)
	}
	return nil
}
