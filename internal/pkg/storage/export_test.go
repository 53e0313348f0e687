package storage

func (u *S3Uploader) SetKeyFunc(fn func() string) { u.newKey = fn }
