package artifact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// blobDownloader is the subset of [*azblob.Client] used by BlobSource.
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// BlobSource reads artifacts from an Azure Storage blob container. Blob
// names are Prefix joined with the artifact path.
type BlobSource struct {
	client    blobDownloader
	container string
	prefix    string
}

// BlobOptions configures NewBlobSource.
type BlobOptions struct {
	// ServiceURL is the account endpoint, e.g. https://acct.blob.core.windows.net/.
	// A SAS token may be included when Anonymous is set.
	ServiceURL string `mapstructure:"service_url"`
	Container  string `mapstructure:"container"`
	Prefix     string `mapstructure:"prefix"`
	// Anonymous skips Entra ID authentication, for public containers or SAS URLs.
	Anonymous bool `mapstructure:"anonymous"`
}

// NewBlobSource creates a BlobSource. Unless opts.Anonymous is set it
// authenticates with azidentity's default credential chain.
func NewBlobSource(opts BlobOptions) (*BlobSource, error) {
	if opts.ServiceURL == "" {
		return nil, errors.New("azblob source requires service_url")
	}
	if opts.Container == "" {
		return nil, errors.New("azblob source requires container")
	}

	var (
		client *azblob.Client
		err    error
	)
	if opts.Anonymous {
		client, err = azblob.NewClientWithNoCredential(opts.ServiceURL, nil)
	} else {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("creating Azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(opts.ServiceURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlobSource(client, opts.Container, opts.Prefix), nil
}

func newBlobSource(client blobDownloader, container, prefix string) *BlobSource {
	return &BlobSource{client: client, container: container, prefix: prefix}
}

// Fetch downloads the blob for p.
func (b *BlobSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	name := clean
	if b.prefix != "" {
		name = path.Join(b.prefix, clean)
	}

	resp, err := b.client.DownloadStream(ctx, b.container, name, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, b.container, name)
		}
		return nil, fmt.Errorf("downloading %s/%s: %w", b.container, name, err)
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("downloading %s/%s: empty body", b.container, name)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := readArtifact(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", b.container, name, err)
	}
	return data, nil
}

var _ Source = (*BlobSource)(nil)
