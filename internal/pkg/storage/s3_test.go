package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"antiscam/internal/pkg/storage"
	"antiscam/internal/testhelpers"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

type fakePutter struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	delay   func(body []byte) time.Duration
	err     error
}

func newFakePutter() *fakePutter {
	return &fakePutter{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	if f.delay != nil {
		time.Sleep(f.delay(body))
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = body
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

var _ = Describe("S3Uploader", func() {
	var (
		putter *fakePutter
		u      *storage.S3Uploader
		seq    atomic.Int32
	)

	BeforeEach(func() {
		seq.Store(0)
		putter = newFakePutter()
		u = storage.NewS3Uploader(putter, "evidence", "ap-south-1", "https://cdn.example.com/", zap.NewNop())
		u.SetKeyFunc(func() string { return fmt.Sprintf("k%d", seq.Add(1)) })
	})

	It("stores buffers under the kind prefix", func() {
		got, err := u.UploadBuffer(context.Background(), storage.Asset{Data: []byte("pdf"), Kind: storage.KindDocument})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("https://cdn.example.com/documents/k1.pdf"))
		Expect(putter.types).To(HaveKeyWithValue("documents/k1.pdf", "application/pdf"))
	})

	It("falls back to the virtual-hosted bucket url", func() {
		u = storage.NewS3Uploader(putter, "evidence", "ap-south-1", "", zap.NewNop())
		u.SetKeyFunc(func() string { return "fixed" })

		got, err := u.UploadBuffer(context.Background(), storage.Asset{Data: []byte("a"), ContentType: "audio/mpeg", Kind: storage.KindAudio})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("https://evidence.s3.ap-south-1.amazonaws.com/audio/fixed.mp3"))
	})

	It("keeps batch results in input order when later uploads finish first", func() {
		putter.delay = func(body []byte) time.Duration {
			return time.Duration(5-int(body[0]-'0')) * 10 * time.Millisecond
		}

		assets := make([]storage.Asset, 5)
		for i := range assets {
			assets[i] = storage.Asset{Data: []byte(fmt.Sprintf("%d", i)), Kind: storage.KindImage}
		}

		urls, err := u.UploadBatch(context.Background(), assets)
		Expect(err).NotTo(HaveOccurred())
		Expect(urls).To(HaveLen(5))
		for i, url := range urls {
			key := url[len("https://cdn.example.com/"):]
			Expect(putter.objects[key]).To(Equal([]byte(fmt.Sprintf("%d", i))))
		}
	})

	It("fails the whole batch when one upload fails", func() {
		putter.err = errors.New("access denied")

		_, err := u.UploadBatch(context.Background(), []storage.Asset{{Data: []byte("0")}, {Data: []byte("1")}})
		Expect(err).To(MatchError(storage.ErrUpload))
	})

	It("copies remote files", func() {
		testhelpers.Activate()
		defer testhelpers.Deactivate()
		u.UseDefaultClient()

		testhelpers.New("https://files.example.com").Get("/shot.png").Reply(200).
			Body([]byte("png")).Header("Content-Type", "image/png")

		got, err := u.UploadURL(context.Background(), "https://files.example.com/shot.png", storage.KindImage)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("https://cdn.example.com/images/k1.png"))
		Expect(putter.objects["images/k1.png"]).To(Equal([]byte("png")))
	})
})
