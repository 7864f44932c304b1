package openstack

import (
	"bytes"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack"
	"github.com/gophercloud/gophercloud/openstack/objectstorage/v1/objects"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/errors"
)

const storageName = "Openstack"

// Openstack specific option names. Credentials are expected to be stored in
// environment variables. See
// https://github.com/gophercloud/gophercloud#credentials
const (
	openstackRegion    = "openstackRegion"
	openstackContainer = "openstackContainer"
)

var (
	requiredOpts = []string{openstackRegion, openstackContainer}
)

type openstackStorage struct {
	client    *gophercloud.ServiceClient
	container string
}

func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "cloud/storage/openstack.New"

	for _, opt := range requiredOpts {
		if _, ok := opts.Opts[opt]; !ok {
			return nil, errors.E(op, errors.Invalid, errors.Errorf(
				"%q option is required", opt))
		}
	}

	authOpts, err := openstack.AuthOptionsFromEnv()
	if err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf(
			"Auth options not found in env: %s", err))
	}

	provider, err := openstack.AuthenticatedClient(authOpts)
	if err != nil {
		return nil, errors.E(op, errors.Permission, errors.Errorf(
			"Could not authenticate: %s", err))
	}

	client, err := openstack.NewObjectStorageV1(provider, gophercloud.EndpointOpts{
		Region: opts.Opts[openstackRegion],
	})
	if err != nil {
		// The error kind is "Invalid" because AFAICS this can only
		// happen for unknown region
		return nil, errors.E(op, errors.Invalid, errors.Errorf(
			"Could not create object storage client: %s", err))
	}

	return &openstackStorage{
		client:    client,
		container: opts.Opts[openstackContainer],
	}, nil
}

func init() {
	err := storage.Register(storageName, New)
	if err != nil {
		// If more modules are registering under the same storage name,
		// an application should not start.
		panic(err)
	}
}

var _ storage.Storage = (*openstackStorage)(nil)

func (s *openstackStorage) Exists(ref string) (bool, error) {
	const op errors.Op = "cloud/storage/openstack.Exists"

	_, err := objects.Get(s.client, s.container, ref, nil).Extract()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(gophercloud.ErrDefault404); ok {
		return false, nil
	}
	return false, errors.E(op, errors.IO, errors.Errorf(
		"Unable to stat ref %q in container %q: %s", ref, s.container, err))
}

func (s *openstackStorage) Download(ref string) ([]byte, error) {
	const op errors.Op = "cloud/storage/openstack.Download"

	res := objects.Download(s.client, s.container, ref, nil)
	contents, err := res.ExtractContent()
	if err != nil {
		if _, ok := err.(gophercloud.ErrDefault404); ok {
			return nil, errors.E(op, errors.NotExist, err)
		}
		return nil, errors.E(op, errors.IO, errors.Errorf(
			"Unable to download ref %q from container %q: %s", ref, s.container, err))
	}
	return contents, nil
}

func (s *openstackStorage) Put(ref string, contents []byte) error {
	const op errors.Op = "cloud/storage/openstack.Put"

	err := objects.Create(s.client, s.container, ref, objects.CreateOpts{
		Content: bytes.NewReader(contents),
	}).Err
	if err != nil {
		return errors.E(op, errors.IO, errors.Errorf(
			"Unable to upload ref %q to container %q: %s", ref, s.container, err))
	}
	return nil
}

func (s *openstackStorage) Delete(ref string) error {
	const op errors.Op = "cloud/storage/openstack.Delete"

	err := objects.Delete(s.client, s.container, ref, nil).Err
	if err != nil {
		return errors.E(op, errors.IO, errors.Errorf(
			"Unable to delete ref %q from container %q: %s", ref, s.container, err))
	}
	return nil
}

func (s *openstackStorage) Close() {
	s.client = nil
}
