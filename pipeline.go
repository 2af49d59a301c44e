package pixelcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/pixelcode/code"
	pcimage "github.com/bodgit/pixelcode/image"
	_ "github.com/go-forks/gopnm"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const scanWorkers = 10

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".pbm":  {},
	".pgm":  {},
	".png":  {},
	".pnm":  {},
	".ppm":  {},
	".webp": {},
}

type scanned struct {
	file string
	rows code.Rows
}

func isImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

func (p *PixelCode) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func (p *PixelCode) imageWorker(ctx context.Context, in <-chan string, out chan<- scanned, o *pcimage.Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			m, err := decodeFile(file)
			if err != nil {
				p.logger.Printf("Skipping \"%s\": %s\n", file, err)
				continue
			}

			rows, err := pcimage.Rows(m, o)
			if err != nil {
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}

			select {
			case out <- scanned{file, rows}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func (p *PixelCode) storeWorker(in <-chan scanned) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		stored := make(map[string]string)
		for s := range in {
			name := strings.TrimSuffix(filepath.Base(s.file), filepath.Ext(s.file))
			if prev, ok := stored[Key(name)]; ok {
				if prev < s.file {
					p.logger.Printf("Skipping \"%s\": \"%s\" is already stored as \"%s\"\n", s.file, prev, Key(name))
					continue
				}
				p.logger.Printf("Replacing \"%s\" with \"%s\" as \"%s\"\n", prev, s.file, Key(name))
			}
			stored[Key(name)] = s.file
			for key, seq := range Sequences(name+"_", s.rows) {
				if key == Key(name+"_"+RevealAll) {
					key = name
				}
				if err := p.db.AddSequence(key, seq); err != nil {
					errc <- err
					return
				}
			}
			p.logger.Printf("Stored \"%s\" as \"%s\"\n", s.file, Key(name))
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and stores every image found as pixel codes. An image
// named heart.png is stored under HEART with every code in row-major order
// and each row n, counting from one, under HEART_ROW_n.
// Images whose names differ only by directory, extension or case share a
// key, and the one with the lexically smallest path is kept.
func (p *PixelCode) Scan(path string, o *pcimage.Options) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := p.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	images := make(chan scanned)
	var workers []<-chan error
	for i := 0; i < scanWorkers; i++ {
		errc, err := p.imageWorker(ctx, files, images, o)
		if err != nil {
			return err
		}
		workers = append(workers, errc)
	}

	// Close the stage once every worker has finished, passing any errors on
	workerErrc := make(chan error, scanWorkers)
	go func() {
		defer close(workerErrc)
		defer close(images)
		for err := range mergeErrors(workers...) {
			if err != nil {
				workerErrc <- err
				cancelFunc()
			}
		}
	}()
	errcList = append(errcList, workerErrc)

	errc, err = p.storeWorker(images)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
